package probability

import (
	"math"
)

// MetersPerSecond converts a distance gap to a time gap, assuming an
// average race speed of 200 km/h.
const MetersPerSecond = 55.56

// Historical win likelihood by running position; exponential decay beyond.
var baseWinProbs = map[int]float64{
	1: 0.40,
	2: 0.25,
	3: 0.15,
	4: 0.08,
	5: 0.05,
}

// Podium likelihood by running position; larger table, same decay pattern.
var basePodiumProbs = map[int]float64{
	1: 0.95,
	2: 0.85,
	3: 0.70,
	4: 0.40,
	5: 0.25,
	6: 0.15,
	7: 0.08,
	8: 0.04,
}

// BaseWinProbability returns the position-based win probability before any
// adjustment.
func BaseWinProbability(position, totalDrivers int) float64 {
	if position <= 0 || totalDrivers <= 0 {
		return 0.0
	}
	if p, ok := baseWinProbs[position]; ok {
		return p
	}
	if position <= totalDrivers {
		return math.Max(0.001, 0.05*math.Pow(0.5, float64(position-5)))
	}
	return 0.0
}

// BasePodiumProbability returns the position-based podium probability.
func BasePodiumProbability(position, totalDrivers int) float64 {
	if position <= 0 || totalDrivers <= 0 {
		return 0.0
	}
	if p, ok := basePodiumProbs[position]; ok {
		return p
	}
	if position <= totalDrivers {
		return math.Max(0.001, 0.04*math.Pow(0.5, float64(position-8)))
	}
	return 0.0
}

// AdjustForGap scales a win probability by whether the gap to the leader
// is closeable in the remaining laps at the assumed pace advantage.
// Leading drivers (gap <= 0) pass through unchanged.
func AdjustForGap(
	baseProb, gapToLeader float64,
	lapsRemaining int,
	paceDelta float64,
) float64 {
	if baseProb <= 0 || lapsRemaining <= 0 {
		return baseProb
	}
	if gapToLeader <= 0 {
		return baseProb
	}

	maxCloseable := paceDelta * float64(lapsRemaining)
	if maxCloseable <= 0 {
		return baseProb * 0.1
	}

	catchability := math.Min(1.0, maxCloseable/gapToLeader)
	var adjustment float64
	if catchability < 0.5 {
		adjustment = catchability * 0.5
	} else {
		adjustment = 0.5 + (catchability-0.5)*0.5
	}
	return baseProb * adjustment
}

// AdjustForTyres applies a multiplicative factor built from the tyre-age
// difference to the leader and the compound endurance difference. The
// result is clamped to [0, 1].
func AdjustForTyres(
	prob float64,
	myTyreAge, leaderTyreAge int,
	myCompound, leaderCompound int,
) float64 {
	if prob <= 0 {
		return prob
	}

	adjustment := 1.0

	ageDiff := leaderTyreAge - myTyreAge
	switch {
	case ageDiff > 10:
		adjustment *= 1.2
	case ageDiff > 5:
		adjustment *= 1.1
	case ageDiff < -10:
		adjustment *= 0.8
	case ageDiff < -5:
		adjustment *= 0.9
	}

	// harder compound = endurance advantage, softer = pace now but deg risk
	compoundDiff := myCompound - leaderCompound
	if compoundDiff > 0 {
		adjustment *= 1.05
	} else if compoundDiff < 0 {
		adjustment *= 0.95
	}

	return math.Min(1.0, math.Max(0.0, prob*adjustment))
}
