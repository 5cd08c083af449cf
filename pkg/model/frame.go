package model

// TyreCompound identifies the tyre fitted during a stint.
type TyreCompound int

const (
	CompoundSoft TyreCompound = iota
	CompoundMedium
	CompoundHard
	CompoundIntermediate
	CompoundWet
)

func (c TyreCompound) String() string {
	switch c {
	case CompoundSoft:
		return "SOFT"
	case CompoundMedium:
		return "MEDIUM"
	case CompoundHard:
		return "HARD"
	case CompoundIntermediate:
		return "INTERMEDIATE"
	case CompoundWet:
		return "WET"
	default:
		return "UNKNOWN"
	}
}

// BaselineCliffLap returns the static estimate (in laps) after which the
// compound falls off the performance cliff. Unknown compounds get a
// middle-of-the-road default.
func (c TyreCompound) BaselineCliffLap() int {
	switch c {
	case CompoundSoft:
		return 18
	case CompoundMedium:
		return 30
	case CompoundHard:
		return 40
	case CompoundIntermediate:
		return 25
	case CompoundWet:
		return 35
	default:
		return 30
	}
}

// DriverRef is a stable small index assigned to a driver code by a Roster.
// Frames store driver state in a dense slice indexed by DriverRef so the
// per-tick loops never hash driver codes.
type DriverRef int

// Roster assigns DriverRefs to 3-letter driver codes. Refs are handed out
// in first-seen order and never change for the lifetime of the roster.
type Roster struct {
	codes  []string
	byCode map[string]DriverRef
}

func NewRoster() *Roster {
	return &Roster{
		codes:  make([]string, 0),
		byCode: make(map[string]DriverRef),
	}
}

// Ref returns the ref for the given code, assigning a new one if the code
// has not been seen yet.
func (r *Roster) Ref(code string) DriverRef {
	if ref, ok := r.byCode[code]; ok {
		return ref
	}
	ref := DriverRef(len(r.codes))
	r.codes = append(r.codes, code)
	r.byCode[code] = ref
	return ref
}

// Lookup returns the ref for a known code without assigning one.
func (r *Roster) Lookup(code string) (DriverRef, bool) {
	ref, ok := r.byCode[code]
	return ref, ok
}

func (r *Roster) Code(ref DriverRef) string {
	if ref < 0 || int(ref) >= len(r.codes) {
		return ""
	}
	return r.codes[ref]
}

func (r *Roster) Len() int {
	return len(r.codes)
}

// DriverState is the instantaneous state of one driver within a frame.
// Lap < 1 means the driver is not active in this frame (not yet on track
// or DNF).
type DriverState struct {
	Lap      int          // current lap number (1-based)
	Tyre     TyreCompound // fitted compound
	Dist     float64      // race distance traveled in meters
	Position int          // track position rank (1-based)
	TrackPos float64      // current interpolated lap
}

// Frame is an immutable snapshot of all driver states at timestamp T.
// States are indexed by DriverRef; entries beyond the slice or with
// Lap < 1 count as absent.
type Frame struct {
	T      float64 // seconds since start of recording
	states []DriverState
}

func NewFrame(t float64, rosterLen int) *Frame {
	return &Frame{T: t, states: make([]DriverState, rosterLen)}
}

// Set records the state for a driver. Only used while building a frame;
// consumers treat frames as read-only.
func (f *Frame) Set(ref DriverRef, state DriverState) {
	if int(ref) >= len(f.states) {
		grown := make([]DriverState, ref+1)
		copy(grown, f.states)
		f.states = grown
	}
	f.states[ref] = state
}

// State returns the driver's state and whether the driver is present in
// this frame.
func (f *Frame) State(ref DriverRef) (DriverState, bool) {
	if ref < 0 || int(ref) >= len(f.states) {
		return DriverState{}, false
	}
	s := f.states[ref]
	return s, s.Lap >= 1
}

// Refs returns the refs of all drivers present in this frame.
func (f *Frame) Refs() []DriverRef {
	ret := make([]DriverRef, 0, len(f.states))
	for i := range f.states {
		if f.states[i].Lap >= 1 {
			ret = append(ret, DriverRef(i))
		}
	}
	return ret
}

// NumDrivers returns the number of drivers present in this frame.
func (f *Frame) NumDrivers() int {
	return len(f.Refs())
}
