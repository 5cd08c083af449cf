package replay

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/ralpfi/prediction-engine-go/log"
	"github.com/ralpfi/prediction-engine-go/pkg/config"
	"github.com/ralpfi/prediction-engine-go/pkg/model"
	"github.com/ralpfi/prediction-engine-go/pkg/processing"
)

var (
	totalLapsArg int
	topN         int
)

func NewReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay framesFile",
		Short: "replay a recorded frame file through the prediction engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0])
		},
	}
	cmd.Flags().IntVar(&totalLapsArg, "total-laps", 0,
		"override the total race laps from the recording")
	cmd.Flags().IntVar(&topN, "top", 3,
		"number of drivers to report per update")
	return cmd
}

func runReplay(framesFile string) error {
	level, err := log.ParseLevel(config.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger := log.DevLogger(level)
	log.ResetDefault(logger)
	l := logger.Named("replay")

	recording, err := LoadRecording(framesFile)
	if err != nil {
		l.Error("could not load recording",
			log.String("file", framesFile), log.ErrorField(err))
		return err
	}
	totalLaps := recording.TotalLaps
	if totalLapsArg > 0 {
		totalLaps = totalLapsArg
	}
	l.Info("recording loaded",
		log.String("file", framesFile),
		log.Int("frames", len(recording.Frames)),
		log.Int("drivers", recording.Roster.Len()),
		log.Int("totalLaps", totalLaps))

	cfg := config.PredictionConfig()
	engine := processing.NewPredictionEngine(
		processing.WithConfig(cfg),
		processing.WithRoster(recording.Roster),
		processing.WithLogger(logger.Named("engine")),
	)

	step := max(1, cfg.UpdateIntervalFrames)
	for idx := 0; idx < len(recording.Frames); idx += step {
		lapsRemaining := max(0, totalLaps-leaderLap(recording.Frames[idx]))
		preds := engine.CalculateAll(recording.Frames, idx, lapsRemaining)
		reportTick(l, recording.Frames[idx], preds)
	}
	return nil
}

func leaderLap(frame *model.Frame) int {
	for _, ref := range frame.Refs() {
		if s, _ := frame.State(ref); s.Position == 1 {
			return s.Lap
		}
	}
	return 0
}

func reportTick(
	l *log.Logger,
	frame *model.Frame,
	preds map[string]*model.DriverPrediction,
) {
	codes := make([]string, 0, len(preds))
	for code := range preds {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		return preds[codes[i]].WinProbability > preds[codes[j]].WinProbability
	})
	if len(codes) > topN {
		codes = codes[:topN]
	}
	for _, code := range codes {
		p := preds[code]
		fields := []log.Field{
			log.Float64("t", frame.T),
			log.String("driver", code),
			log.Float64("win", p.WinProbability),
			log.Float64("podium", p.PodiumProbability),
			log.Int("predictedFinish", p.PredictedFinish),
			log.Bool("pitNow", p.ShouldPitNow),
			log.Float64("danger", p.DangerLevel),
		}
		if p.PitWindow != nil {
			fields = append(fields,
				log.Int("pitFrom", p.PitWindow.Start),
				log.Int("pitTo", p.PitWindow.End))
		}
		if p.ThreatDriver != "" {
			fields = append(fields, log.String("threat", p.ThreatDriver))
		}
		l.Info("prediction", fields...)
	}
}
