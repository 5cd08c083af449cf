//nolint:funlen // table tests
package danger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/probability"
)

// threeCarFrame places three cars with the given distance gaps (in
// seconds) between consecutive positions.
func threeCarFrame(gapP1P2, gapP2P3 float64) *model.Frame {
	f := model.NewFrame(0, 3)
	lead := 10000.0
	f.Set(0, model.DriverState{Lap: 3, Dist: lead, Position: 1})
	f.Set(1, model.DriverState{
		Lap: 3, Dist: lead - gapP1P2*probability.MetersPerSecond, Position: 2,
	})
	f.Set(2, model.DriverState{
		Lap:  3,
		Dist: lead - (gapP1P2+gapP2P3)*probability.MetersPerSecond, Position: 3,
	})
	return f
}

func TestDetectDangerZones(t *testing.T) {
	const threshold = 1.5

	tests := []struct {
		name       string
		gapBehind  float64
		wantLevel  float64
		wantThreat bool
	}{
		{"inside half threshold", 0.5, 1.0, true},
		{"inside threshold", 1.2, 0.5, true},
		{"inside double threshold", 2.5, 0.2, true},
		{"clear behind", 4.0, 0.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := threeCarFrame(tt.gapBehind, 10.0)
			level, threat, ok := DetectDangerZones(frame, 0, threshold)
			assert.InDelta(t, tt.wantLevel, level, 1e-9)
			assert.Equal(t, tt.wantThreat, ok)
			if tt.wantThreat {
				assert.Equal(t, model.DriverRef(1), threat)
			}
		})
	}
}

func TestDetectDangerZones_NoCarBehind(t *testing.T) {
	frame := threeCarFrame(1.0, 1.0)
	level, _, ok := DetectDangerZones(frame, 2, 1.5)
	assert.Equal(t, 0.0, level)
	assert.False(t, ok)
}

func TestDetectDangerZones_AbsentDriver(t *testing.T) {
	frame := threeCarFrame(1.0, 1.0)
	level, _, ok := DetectDangerZones(frame, 7, 1.5)
	assert.Equal(t, 0.0, level)
	assert.False(t, ok)
}

func TestOvertakeProbability(t *testing.T) {
	tests := []struct {
		name      string
		gap       float64
		paceDelta float64
		drs       bool
		laps      int
		want      float64
	}{
		{"already ahead", 0.0, 0.5, false, 5, 0.0},
		{"overlapping", -0.3, 0.5, false, 5, 0.0},
		{"not closing", 2.0, 0.0, false, 5, 0.01},
		{"losing ground", 2.0, -0.2, false, 5, 0.01},
		{"catch within a lap", 0.4, 0.5, false, 5, 0.8},
		{"catch beyond horizon", 10.0, 0.5, false, 5, 0.1},
		// lapsToCatch 3 -> 0.8 - 0.7*(2/4)
		{"interpolated", 1.5, 0.5, false, 5, 0.45},
		{"drs boost", 1.5, 0.5, true, 5, 0.45 * 1.3},
		{"drs capped", 0.4, 0.5, true, 5, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OvertakeProbability(tt.gap, tt.paceDelta, tt.drs, tt.laps)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
