// Package framedata builds synthetic race frame sequences for tests.
package framedata

import (
	"sort"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

const lapLengthMeters = 5000.0

// DriverScript describes one driver's race for the builder: lap times in
// seconds and the compound used on each lap (Compounds may be shorter than
// LapTimes; the last entry then repeats). DNFAfter > 0 removes the driver
// from all frames at or after that timestamp.
type DriverScript struct {
	Code      string
	LapTimes  []float64
	Compounds []model.TyreCompound
	DNFAfter  float64
}

func (s DriverScript) compoundForLap(lapIdx int) model.TyreCompound {
	if len(s.Compounds) == 0 {
		return model.CompoundMedium
	}
	if lapIdx >= len(s.Compounds) {
		return s.Compounds[len(s.Compounds)-1]
	}
	return s.Compounds[lapIdx]
}

func (s DriverScript) totalTime() float64 {
	sum := 0.0
	for _, t := range s.LapTimes {
		sum += t
	}
	return sum
}

// Build samples the scripted race at the given frame interval and returns
// the roster plus the frame sequence. Positions are ranked by distance
// traveled; lap numbers advance exactly at the scripted lap boundaries so
// extractor tests see clean transitions.
func Build(scripts []DriverScript, interval float64) (*model.Roster, []*model.Frame) {
	roster := model.NewRoster()
	for _, s := range scripts {
		roster.Ref(s.Code)
	}

	duration := 0.0
	for _, s := range scripts {
		if t := s.totalTime(); t > duration {
			duration = t
		}
	}

	type rank struct {
		ref  model.DriverRef
		dist float64
	}

	var frames []*model.Frame
	for t := 0.0; t <= duration+interval/2; t += interval {
		frame := model.NewFrame(t, roster.Len())
		ranking := make([]rank, 0, len(scripts))
		for _, s := range scripts {
			if s.DNFAfter > 0 && t >= s.DNFAfter {
				continue
			}
			ref, _ := roster.Lookup(s.Code)
			lapIdx, frac := s.progressAt(t)
			dist := (float64(lapIdx) + frac) * lapLengthMeters
			frame.Set(ref, model.DriverState{
				Lap:      lapIdx + 1,
				Tyre:     s.compoundForLap(lapIdx),
				Dist:     dist,
				TrackPos: float64(lapIdx+1) + frac,
			})
			ranking = append(ranking, rank{ref: ref, dist: dist})
		}
		sort.Slice(ranking, func(i, j int) bool {
			return ranking[i].dist > ranking[j].dist
		})
		for pos, r := range ranking {
			state, _ := frame.State(r.ref)
			state.Position = pos + 1
			frame.Set(r.ref, state)
		}
		frames = append(frames, frame)
	}
	return roster, frames
}

// progressAt returns the zero-based lap index in progress at time t and
// the fraction of that lap completed. Past the scripted race the driver
// just keeps rolling onto further laps at the final lap time.
func (s DriverScript) progressAt(t float64) (int, float64) {
	if len(s.LapTimes) == 0 {
		return 0, 0
	}
	elapsed := t
	for i, lapTime := range s.LapTimes {
		if elapsed < lapTime {
			return i, elapsed / lapTime
		}
		elapsed -= lapTime
	}
	last := s.LapTimes[len(s.LapTimes)-1]
	extra := int(elapsed / last)
	frac := (elapsed - float64(extra)*last) / last
	return len(s.LapTimes) + extra, frac
}

// EvenField creates n drivers with identical lap times, staggered slightly
// so the running order is stable.
func EvenField(n int, lapTime float64, laps int) []DriverScript {
	scripts := make([]DriverScript, 0, n)
	for i := 0; i < n; i++ {
		times := make([]float64, laps)
		for j := range times {
			times[j] = lapTime + float64(i)*0.1
		}
		scripts = append(scripts, DriverScript{
			Code:      driverCode(i),
			LapTimes:  times,
			Compounds: []model.TyreCompound{model.CompoundMedium},
		})
	}
	return scripts
}

func driverCode(i int) string {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return string([]byte{
		letters[i%26], letters[(i/26)%26], letters[(i+7)%26],
	})
}
