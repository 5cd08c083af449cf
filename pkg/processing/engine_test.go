//nolint:funlen // scenario tests build full frame sequences
package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
	"github.com/ralpfi/prediction-engine-go/testsupport/framedata"
)

func TestCalculateAll_EmptyInputs(t *testing.T) {
	engine := NewPredictionEngine()

	assert.Empty(t, engine.CalculateAll(nil, 0, 20))
	assert.Empty(t, engine.CalculateAll([]*model.Frame{}, 0, 20))

	roster, frames := framedata.Build(framedata.EvenField(3, 90, 5), 1.0)
	engine = NewPredictionEngine(WithRoster(roster))
	assert.Empty(t, engine.CalculateAll(frames, -1, 20))
}

func TestCalculateAll_WinProbabilitiesNormalized(t *testing.T) {
	roster, frames := framedata.Build(framedata.EvenField(20, 90, 8), 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	preds := engine.CalculateAll(frames, len(frames)-1, 30)
	require.Len(t, preds, 20)

	sum := 0.0
	for _, p := range preds {
		assert.Greater(t, p.WinProbability, 0.0)
		sum += p.WinProbability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCalculateAll_LeaderHasHighestWinProbability(t *testing.T) {
	roster, frames := framedata.Build(framedata.EvenField(10, 90, 8), 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	preds := engine.CalculateAll(frames, len(frames)-1, 30)
	require.Len(t, preds, 10)

	frame := frames[len(frames)-1]
	var leaderCode string
	for _, ref := range frame.Refs() {
		if s, _ := frame.State(ref); s.Position == 1 {
			leaderCode = roster.Code(ref)
		}
	}
	require.NotEmpty(t, leaderCode)

	leader := preds[leaderCode]
	for code, p := range preds {
		if code == leaderCode {
			continue
		}
		assert.Greater(t, leader.WinProbability, p.WinProbability, code)
	}
	assert.InDelta(t, 0.95, leader.PodiumProbability, 1e-9)
	assert.Equal(t, 1, leader.PredictedFinish)
}

func TestCalculateAll_RetiredDriverExcluded(t *testing.T) {
	scripts := framedata.EvenField(4, 90, 8)
	scripts[2].DNFAfter = 300.0
	roster, frames := framedata.Build(scripts, 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	preds := engine.CalculateAll(frames, len(frames)-1, 30)
	assert.Len(t, preds, 3)
	assert.NotContains(t, preds, scripts[2].Code)
}

func TestCalculateAll_ThreatFieldsPopulated(t *testing.T) {
	// two cars running nose to tail, third far back
	scripts := []framedata.DriverScript{
		{Code: "LEC", LapTimes: repeat(90.0, 8)},
		{Code: "VER", LapTimes: repeat(90.002, 8)},
		{Code: "HAM", LapTimes: repeat(95.0, 8)},
	}
	roster, frames := framedata.Build(scripts, 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	preds := engine.CalculateAll(frames, len(frames)-1, 30)
	require.Contains(t, preds, "LEC")

	lec := preds["LEC"]
	assert.Equal(t, 1.0, lec.DangerLevel)
	assert.Equal(t, "VER", lec.ThreatDriver)

	ham := preds["HAM"]
	assert.Equal(t, 0.0, ham.DangerLevel)
	assert.Empty(t, ham.ThreatDriver)
}

func TestCalculateAll_PitWindowPopulatedMidRace(t *testing.T) {
	roster, frames := framedata.Build(framedata.EvenField(3, 90, 12), 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	preds := engine.CalculateAll(frames, len(frames)-1, 40)
	for code, p := range preds {
		require.NotNil(t, p.PitWindow, code)
		assert.LessOrEqual(t, p.PitWindow.Start, p.PitWindow.End, code)
	}
}

func TestCalculateAll_CursorMoveRecomputes(t *testing.T) {
	roster, frames := framedata.Build(framedata.EvenField(4, 90, 8), 1.0)
	engine := NewPredictionEngine(WithRoster(roster))

	late := engine.CalculateAll(frames, len(frames)-1, 30)
	early := engine.CalculateAll(frames, 10, 37)
	again := engine.CalculateAll(frames, len(frames)-1, 30)

	require.Len(t, early, 4)
	for code, p := range late {
		assert.InDelta(t, p.WinProbability, again[code].WinProbability, 1e-9, code)
	}
}

func repeat(v float64, n int) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = v
	}
	return times
}
