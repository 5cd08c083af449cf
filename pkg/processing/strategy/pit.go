package strategy

import (
	"fmt"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// A pit this early never pays off; a pit this close to the flag is pointless.
const (
	earliestUsefulPitLap = 5
	lateRaceCutoffLaps   = 3
)

// CalculatePitWindow computes the lap range in which a stop makes sense,
// aiming just ahead of the tyre cliff. Returns nil when pitting is either
// too early or too late to matter.
func CalculatePitWindow(
	tyreState model.TyreState,
	currentLap, totalLaps, bufferLaps int,
) *model.PitWindow {
	if totalLaps <= 0 {
		return nil
	}

	optimalPitLap := currentLap + tyreState.RemainingOptimalLaps - bufferLaps
	if optimalPitLap <= earliestUsefulPitLap {
		return nil
	}
	if optimalPitLap >= totalLaps-lateRaceCutoffLaps {
		return nil
	}

	return &model.PitWindow{
		Start: max(1, optimalPitLap-bufferLaps),
		End:   min(totalLaps-2, optimalPitLap+bufferLaps),
	}
}

// PitRecommendation decides whether to box on this lap. Inside the window
// the urgency checks apply in priority order: tyre cliff, high degradation
// while losing time, undercut threat from the car behind.
func PitRecommendation(
	currentLap int,
	window *model.PitWindow,
	tyreState model.TyreState,
	gapBehind float64,
	isLosingTime bool,
) (bool, string) {
	if window == nil {
		return false, "No pit window"
	}
	if currentLap < window.Start {
		return false, fmt.Sprintf("Window in %d laps", window.Start-currentLap)
	}
	if currentLap > window.End {
		return false, "Past window - stay out"
	}

	if tyreState.RemainingOptimalLaps <= 2 {
		return true, "PIT NOW - Tyre cliff imminent"
	}
	if isLosingTime && tyreState.DegRate > 0.15 {
		return true, "PIT NOW - High degradation"
	}
	if gapBehind < 2.0 {
		return true, "PIT NOW - Undercut threat"
	}
	return false, fmt.Sprintf("In window (lap %d-%d)", window.Start, window.End)
}
