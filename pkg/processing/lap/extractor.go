package lap

import (
	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// Lap times outside these bounds are flagged invalid. The upper bound
// catches pit in/out laps, the lower one timing glitches.
const (
	MaxPlausibleLapTime = 150.0
	MinPlausibleLapTime = 60.0
)

// ExtractLapTimes walks the frames in order (exclusive upper bound
// upToFrame) and derives the lap history for one driver. A record is
// emitted whenever the driver's reported lap number increases; a compound
// change between consecutive frames resets the stint start lap so TyreAge
// counts laps since the most recent tyre change. When the driver vanishes
// from a frame mid-lap, the in-progress lap is closed out untimed and
// invalid.
//
//nolint:gocognit // state tracking is easier to follow in one pass
func ExtractLapTimes(
	frames []*model.Frame,
	ref model.DriverRef,
	upToFrame int,
) []model.LapRecord {
	if len(frames) == 0 || upToFrame <= 0 {
		return nil
	}
	endFrame := min(upToFrame, len(frames))

	var (
		records       []model.LapRecord
		lapStartTime  float64
		lapStartTyre  model.TyreCompound
		currentLap    int // 0 = not tracking
		lastTyre      model.TyreCompound
		tyreSeen      bool
		stintStartLap = 1
	)

	for i := 0; i < endFrame; i++ {
		state, ok := frames[i].State(ref)
		if !ok {
			// driver gone mid-lap: close out what we were tracking
			if currentLap > 0 {
				records = append(records, model.LapRecord{
					Lap:     currentLap,
					Timed:   false,
					Tyre:    lastTyre,
					TyreAge: max(0, currentLap-stintStartLap),
					Valid:   false,
				})
				currentLap = 0
			}
			continue
		}

		if tyreSeen && state.Tyre != lastTyre {
			// pit stop: new stint starts on this lap
			stintStartLap = state.Lap
		}
		lastTyre = state.Tyre
		tyreSeen = true

		if currentLap == 0 {
			// first sighting only seeds the tracking state
			currentLap = state.Lap
			lapStartTime = frames[i].T
			lapStartTyre = state.Tyre
			continue
		}

		if state.Lap > currentLap {
			lapTime := frames[i].T - lapStartTime
			valid := lapTime <= MaxPlausibleLapTime && lapTime >= MinPlausibleLapTime
			records = append(records, model.LapRecord{
				Lap:     currentLap,
				Time:    lapTime,
				Timed:   true,
				Tyre:    lapStartTyre,
				TyreAge: max(0, currentLap-stintStartLap),
				Valid:   valid,
			})
			currentLap = state.Lap
			lapStartTime = frames[i].T
			lapStartTyre = state.Tyre
		}
	}
	return records
}
