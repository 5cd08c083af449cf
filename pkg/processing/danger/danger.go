package danger

import (
	"github.com/ralpfi/prediction-engine-go/pkg/model"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/probability"
)

// DetectDangerZones locates the car directly behind the given driver in
// the frame and grades the threat by the time gap: 1.0 within half the
// threshold, 0.5 within it, 0.2 within twice, 0.0 otherwise. The second
// return value is the ref of the attacking car (valid only when the level
// is above 0).
func DetectDangerZones(
	frame *model.Frame,
	ref model.DriverRef,
	threshold float64,
) (float64, model.DriverRef, bool) {
	state, ok := frame.State(ref)
	if !ok {
		return 0.0, 0, false
	}

	behindRef := model.DriverRef(-1)
	var behindState model.DriverState
	for _, other := range frame.Refs() {
		if other == ref {
			continue
		}
		os, _ := frame.State(other)
		if os.Position == state.Position+1 {
			behindRef = other
			behindState = os
			break
		}
	}
	if behindRef < 0 {
		return 0.0, 0, false
	}

	gapMeters := state.Dist - behindState.Dist
	gapSeconds := 0.0
	if gapMeters > 0 {
		gapSeconds = gapMeters / probability.MetersPerSecond
	}

	switch {
	case gapSeconds <= threshold*0.5:
		return 1.0, behindRef, true
	case gapSeconds <= threshold:
		return 0.5, behindRef, true
	case gapSeconds <= threshold*2:
		return 0.2, behindRef, true
	default:
		return 0.0, 0, false
	}
}

// OvertakeProbability estimates the chance of completing an overtake
// within the given lap horizon. Already ahead means 0.0 exactly; not
// closing means a floor of 0.01. Otherwise the base probability
// interpolates from 0.8 (catch within a lap) down to 0.1 (catch beyond
// the horizon), with a DRS bonus capped at 0.95.
func OvertakeProbability(
	gapSeconds, paceDelta float64,
	drsAvailable bool,
	lapsToConsider int,
) float64 {
	if gapSeconds <= 0 {
		return 0.0
	}
	if paceDelta <= 0 {
		return 0.01
	}

	lapsToCatch := gapSeconds / paceDelta
	var baseProb float64
	switch {
	case lapsToCatch > float64(lapsToConsider):
		baseProb = 0.1
	case lapsToCatch <= 1:
		baseProb = 0.8
	default:
		baseProb = 0.8 - 0.7*(lapsToCatch-1)/float64(lapsToConsider-1)
	}

	if drsAvailable {
		baseProb = min(0.95, baseProb*1.3)
	}
	return baseProb
}
