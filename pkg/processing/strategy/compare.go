package strategy

import (
	"slices"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// Typical positions lost during a stop.
const pitLossPositions = 2

// ComparePitStrategies evaluates up to three scenarios (pit now, pit in
// five laps, no further stop) and maps each to a heuristic predicted
// finishing position. Results come back sorted best-first.
func ComparePitStrategies(
	currentLap, lapsRemaining int,
	tyreState model.TyreState,
	position, totalDrivers int,
) []model.StrategyOption {
	strategies := make([]model.StrategyOption, 0, 3)

	// fresh tyres claw back positions on long runs, capped at 3
	tyreGain := min(3, lapsRemaining/10)

	pitNowConfidence := 0.4
	if tyreState.RemainingOptimalLaps < 10 {
		pitNowConfidence = 0.6
	}
	strategies = append(strategies, model.StrategyOption{
		Strategy:        "Pit now",
		PredictedFinish: clampPosition(position+pitLossPositions-tyreGain, totalDrivers),
		Confidence:      pitNowConfidence,
	})

	if lapsRemaining > 8 {
		// waiting may undercut others ahead
		strategies = append(strategies, model.StrategyOption{
			Strategy:        "Pit in 5 laps",
			PredictedFinish: clampPosition(position+pitLossPositions-tyreGain-1, totalDrivers),
			Confidence:      0.5,
		})
	}

	if lapsRemaining < 15 {
		// no stop time loss, but the cliff may bite
		degPenalty := int(tyreState.DegRate * float64(lapsRemaining) / 0.1)
		noStopConfidence := 0.3
		if tyreState.RemainingOptimalLaps > lapsRemaining {
			noStopConfidence = 0.7
		}
		strategies = append(strategies, model.StrategyOption{
			Strategy:        "No stop",
			PredictedFinish: clampPosition(position+degPenalty, totalDrivers),
			Confidence:      noStopConfidence,
		})
	}

	slices.SortStableFunc(strategies, func(a, b model.StrategyOption) int {
		return a.PredictedFinish - b.PredictedFinish
	})
	return strategies
}

func clampPosition(pos, totalDrivers int) int {
	return max(1, min(totalDrivers, pos))
}
