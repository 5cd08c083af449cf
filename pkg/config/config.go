package config

import (
	"github.com/ralpfi/prediction-engine-go/pkg/model"
)

// this holds the resolved configuration values from CLI
var (
	LogLevel string // sets the log level (zap log level values)

	PaceWindowLaps               int     // laps for the rolling pace average
	UpdateIntervalFrames         int     // frames between engine updates
	PitWindowBufferLaps          int     // buffer around the optimal pit lap
	DangerThresholdSeconds       float64 // gap at which a car behind counts as a threat
	OvertakeProbabilityThreshold float64 // minimum overtake probability worth reporting
)

// PredictionConfig converts the resolved CLI values into engine tunables.
func PredictionConfig() *model.PredictionConfig {
	return &model.PredictionConfig{
		PaceWindowLaps:               PaceWindowLaps,
		UpdateIntervalFrames:         UpdateIntervalFrames,
		PitWindowBufferLaps:          PitWindowBufferLaps,
		DangerThresholdSeconds:       DangerThresholdSeconds,
		OvertakeProbabilityThreshold: OvertakeProbabilityThreshold,
	}
}
