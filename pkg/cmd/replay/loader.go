package replay

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"

	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// Recording is a parsed frame file: the roster built from all driver codes
// seen in the recording plus the ordered frame sequence.
type Recording struct {
	Roster    *model.Roster
	Frames    []*model.Frame
	TotalLaps int
}

// LoadRecording reads a JSON frame recording. Expected shape:
//
//	{
//	  "totalLaps": 57,
//	  "frames": [
//	    {"t": 0.0,
//	     "drivers": {"VER": {"lap":1,"tyre":0,"dist":120.5,"position":1,"trackPos":1.02}}}
//	  ]
//	}
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a JSON object at top level", path)
	}
	rawFrames, ok := root["frames"].([]any)
	if !ok {
		return nil, fmt.Errorf("%s: missing frames array", path)
	}

	roster := model.NewRoster()
	frames := make([]*model.Frame, 0, len(rawFrames))
	for i, rf := range rawFrames {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("frame %d: unexpected shape", i)
		}
		frame := model.NewFrame(asFloat(fm["t"]), roster.Len())
		drivers, _ := fm["drivers"].(map[string]any)
		for code, rd := range drivers {
			dm, ok := rd.(map[string]any)
			if !ok {
				continue
			}
			frame.Set(roster.Ref(code), model.DriverState{
				Lap:      asInt(dm["lap"]),
				Tyre:     model.TyreCompound(asInt(dm["tyre"])),
				Dist:     asFloat(dm["dist"]),
				Position: asInt(dm["position"]),
				TrackPos: asFloat(dm["trackPos"]),
			})
		}
		frames = append(frames, frame)
	}
	return &Recording{
		Roster:    roster,
		Frames:    frames,
		TotalLaps: asInt(root["totalLaps"]),
	}, nil
}

func asFloat(raw any) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0.0
	}
}

func asInt(raw any) int {
	switch v := raw.(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
