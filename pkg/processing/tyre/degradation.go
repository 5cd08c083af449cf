package tyre

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// Degradation rates outside this range are measurement noise.
const (
	MinDegRate = 0.0
	MaxDegRate = 0.3
)

// EstimateDegradation derives the current tyre state from a driver's lap
// history. The current stint is the maximal run of trailing valid records
// on the most recent compound (explicit reverse scan, stops at a compound
// change or an invalid record once the run has started). With at least two
// timed points the degradation rate is the OLS slope of lap time against
// tyre age; otherwise the compound baseline applies unchanged.
func EstimateDegradation(records []model.LapRecord) model.TyreState {
	if len(records) == 0 {
		return baselineState(model.CompoundSoft, 0)
	}

	currentCompound := records[len(records)-1].Tyre

	// reverse scan for the current stint
	stintStart := -1
	stintEnd := -1
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Tyre == currentCompound && records[i].Valid {
			if stintEnd == -1 {
				stintEnd = i
			}
			stintStart = i
		} else if stintEnd != -1 {
			break
		}
	}
	if stintEnd == -1 {
		return baselineState(currentCompound, 0)
	}
	stint := records[stintStart : stintEnd+1]
	lapsOnTyre := len(stint)

	ages := make([]float64, 0, len(stint))
	times := make([]float64, 0, len(stint))
	for i := range stint {
		if stint[i].Timed {
			ages = append(ages, float64(stint[i].TyreAge))
			times = append(times, stint[i].Time)
		}
	}
	if len(ages) < 2 {
		return baselineState(currentCompound, lapsOnTyre)
	}

	_, slope := stat.LinearRegression(ages, times, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		// zero variance in tyre age
		slope = 0.0
	}
	degRate := math.Min(MaxDegRate, math.Max(MinDegRate, slope))

	baseCliff := currentCompound.BaselineCliffLap()
	estimatedCliff := baseCliff
	switch {
	case degRate > 0.1:
		estimatedCliff = int(float64(baseCliff) * 0.8)
	case degRate > 0.05:
		estimatedCliff = int(float64(baseCliff) * 0.9)
	}

	return model.TyreState{
		Compound:             currentCompound,
		LapsOnTyre:           lapsOnTyre,
		DegRate:              degRate,
		EstimatedCliffLap:    estimatedCliff,
		RemainingOptimalLaps: max(0, estimatedCliff-lapsOnTyre),
	}
}

func baselineState(compound model.TyreCompound, lapsOnTyre int) model.TyreState {
	cliff := compound.BaselineCliffLap()
	return model.TyreState{
		Compound:             compound,
		LapsOnTyre:           lapsOnTyre,
		DegRate:              0.0,
		EstimatedCliffLap:    cliff,
		RemainingOptimalLaps: max(0, cliff-lapsOnTyre),
	}
}
