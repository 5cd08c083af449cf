//nolint:funlen // table tests
package tyre

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

func stintRecords(compound model.TyreCompound, times ...float64) []model.LapRecord {
	records := make([]model.LapRecord, 0, len(times))
	for i, t := range times {
		records = append(records, model.LapRecord{
			Lap: i + 1, Time: t, Timed: true,
			Tyre: compound, TyreAge: i, Valid: true,
		})
	}
	return records
}

func TestEstimateDegradation_NoData(t *testing.T) {
	got := EstimateDegradation(nil)
	assert.Equal(t, model.CompoundSoft, got.Compound)
	assert.Equal(t, 0.0, got.DegRate)
	assert.Equal(t, 18, got.EstimatedCliffLap)
	assert.Equal(t, 18, got.RemainingOptimalLaps)
}

func TestEstimateDegradation_TooFewLaps(t *testing.T) {
	got := EstimateDegradation(stintRecords(model.CompoundMedium, 90))
	assert.Equal(t, model.CompoundMedium, got.Compound)
	assert.Equal(t, 1, got.LapsOnTyre)
	assert.Equal(t, 0.0, got.DegRate)
	assert.Equal(t, 30, got.EstimatedCliffLap)
	assert.Equal(t, 29, got.RemainingOptimalLaps)
}

func TestEstimateDegradation_SlopeClampAndCliff(t *testing.T) {
	// one full second per lap regresses to slope 1.0, clamped to 0.3;
	// that is well past the 0.1 mark, so the cliff comes forward by 20%
	got := EstimateDegradation(stintRecords(model.CompoundSoft, 71, 72, 73, 74, 75))
	assert.InDelta(t, 0.3, got.DegRate, 1e-9)
	assert.Equal(t, 14, got.EstimatedCliffLap) // 18 * 0.8
	assert.Equal(t, 9, got.RemainingOptimalLaps)
	assert.Equal(t, 5, got.LapsOnTyre)
}

func TestEstimateDegradation_ModerateWear(t *testing.T) {
	// 0.08 s/lap: cliff reduced by 10%
	records := stintRecords(model.CompoundHard, 90.00, 90.08, 90.16, 90.24, 90.32)
	got := EstimateDegradation(records)
	assert.InDelta(t, 0.08, got.DegRate, 1e-6)
	assert.Equal(t, 36, got.EstimatedCliffLap) // 40 * 0.9
}

func TestEstimateDegradation_ImprovingTimesClampToZero(t *testing.T) {
	got := EstimateDegradation(stintRecords(model.CompoundMedium, 95, 94, 93, 92))
	assert.Equal(t, 0.0, got.DegRate)
	assert.Equal(t, 30, got.EstimatedCliffLap)
}

func TestEstimateDegradation_DegenerateAges(t *testing.T) {
	records := []model.LapRecord{
		{Lap: 1, Time: 90, Timed: true, Tyre: model.CompoundMedium, TyreAge: 3, Valid: true},
		{Lap: 2, Time: 91, Timed: true, Tyre: model.CompoundMedium, TyreAge: 3, Valid: true},
	}
	got := EstimateDegradation(records)
	assert.Equal(t, 0.0, got.DegRate)
}

func TestEstimateDegradation_StintScanStopsAtCompoundChange(t *testing.T) {
	records := append(
		stintRecords(model.CompoundSoft, 71, 72, 73),
		model.LapRecord{Lap: 4, Time: 90, Timed: true,
			Tyre: model.CompoundMedium, TyreAge: 0, Valid: true},
		model.LapRecord{Lap: 5, Time: 90, Timed: true,
			Tyre: model.CompoundMedium, TyreAge: 1, Valid: true},
	)
	got := EstimateDegradation(records)
	// only the two medium laps count; flat times mean no measured wear
	assert.Equal(t, model.CompoundMedium, got.Compound)
	assert.Equal(t, 2, got.LapsOnTyre)
	assert.Equal(t, 0.0, got.DegRate)
}

func TestEstimateDegradation_NeverNegativeRemaining(t *testing.T) {
	// 25 laps on softs is far past any cliff estimate
	times := make([]float64, 25)
	for i := range times {
		times[i] = 90 + float64(i)
	}
	got := EstimateDegradation(stintRecords(model.CompoundSoft, times...))
	assert.GreaterOrEqual(t, got.RemainingOptimalLaps, 0)
	assert.GreaterOrEqual(t, got.DegRate, 0.0)
	assert.LessOrEqual(t, got.DegRate, 0.3)
}
