package model

// LapRecord describes one completed (or truncated) lap of a driver.
// Records are derived from frame data and never mutated.
type LapRecord struct {
	Lap     int
	Time    float64 // elapsed seconds, only meaningful when Timed
	Timed   bool    // false when the lap was truncated or unobservable
	Tyre    TyreCompound
	TyreAge int  // laps since the most recent compound change
	Valid   bool // false for pit laps and anomalous times
}

// TyreState is the latest known tyre situation for a driver, derived fresh
// from the lap record sequence.
type TyreState struct {
	Compound             TyreCompound
	LapsOnTyre           int
	DegRate              float64 // seconds lost per lap, clamped to [0, 0.3]
	EstimatedCliffLap    int
	RemainingOptimalLaps int // never negative
}

// PitWindow is the recommended lap range for a pit stop.
type PitWindow struct {
	Start int
	End   int
}

// StrategyOption is one evaluated pit strategy scenario.
type StrategyOption struct {
	Strategy        string
	PredictedFinish int
	Confidence      float64
}

// DriverPrediction is the per-driver output of one engine update.
// Superseded wholesale by the next update call.
type DriverPrediction struct {
	DriverCode        string
	WinProbability    float64 // normalized across the frame's drivers
	PodiumProbability float64 // independent, not normalized
	PredictedFinish   int
	PitWindow         *PitWindow // nil when no window applies
	ShouldPitNow      bool
	DangerLevel       float64 // 0.0 (safe) to 1.0 (under attack)
	ThreatDriver      string  // empty when no threat
	Confidence        float64
}

// PredictionConfig holds the engine tunables. Set once at construction,
// read-only afterwards.
type PredictionConfig struct {
	PaceWindowLaps               int
	UpdateIntervalFrames         int
	PitWindowBufferLaps          int
	DangerThresholdSeconds       float64
	OvertakeProbabilityThreshold float64
}

func DefaultPredictionConfig() *PredictionConfig {
	return &PredictionConfig{
		PaceWindowLaps:               5,
		UpdateIntervalFrames:         25,
		PitWindowBufferLaps:          3,
		DangerThresholdSeconds:       1.5,
		OvertakeProbabilityThreshold: 0.3,
	}
}
