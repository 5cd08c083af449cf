package pace

import (
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// Laps slower than this fraction of the median are treated as
// pit-affected and dropped from the rolling average.
const outlierFactor = 1.20

// Fuel burn makes the car roughly this much faster per remaining lap.
const fuelCorrectionPerLap = 0.03

// Trend describes how one driver's pace compares to another's.
type Trend string

const (
	TrendStable      Trend = "stable"
	TrendCatching    Trend = "catching"
	TrendPullingAway Trend = "pulling_away"
)

// CalculateRollingPace returns the mean of the most recent window laps
// after discarding invalid, untimed and pit-affected laps. The outlier
// filter uses the median across ALL valid laps before the recency window
// is applied; swapping that order changes results.
// Returns 0.0 when there is no usable data and falls back to the median
// when every lap is filtered out.
func CalculateRollingPace(records []model.LapRecord, window int) float64 {
	times := lo.FilterMap(records, func(r model.LapRecord, _ int) (float64, bool) {
		return r.Time, r.Valid && r.Timed
	})
	if len(times) == 0 {
		return 0.0
	}

	median := medianOf(times)
	threshold := median * outlierFactor
	clean := lo.Filter(times, func(t float64, _ int) bool {
		return t <= threshold
	})
	if len(clean) == 0 {
		return median
	}

	recent := clean
	if window > 0 && len(clean) > window {
		recent = clean[len(clean)-window:]
	}
	return lo.Sum(recent) / float64(len(recent))
}

// FuelCorrectPace reduces a raw lap time by the fuel-load handicap: a
// fuel-heavy early-race lap is inherently slower than its raw time
// suggests. Non-positive inputs pass through unchanged.
func FuelCorrectPace(lapTime float64, lapNumber, totalLaps int) float64 {
	if lapTime <= 0 || lapNumber <= 0 || totalLaps <= 0 {
		return lapTime
	}
	lapsRemaining := max(0, totalLaps-lapNumber)
	return lapTime - fuelCorrectionPerLap*float64(lapsRemaining)
}

// PaceDelta compares two drivers' paces (seconds per lap). The returned
// delta is always non-negative; the trend tells the direction. Differences
// below 0.1s count as stable.
func PaceDelta(driverPace, rivalPace float64) (float64, Trend) {
	if driverPace <= 0 || rivalPace <= 0 {
		return 0.0, TrendStable
	}
	delta := rivalPace - driverPace
	switch {
	case math.Abs(delta) < 0.1:
		return math.Abs(delta), TrendStable
	case delta > 0:
		return delta, TrendCatching
	default:
		return math.Abs(delta), TrendPullingAway
	}
}

func medianOf(times []float64) float64 {
	sorted := make([]float64, len(times))
	copy(sorted, times)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
