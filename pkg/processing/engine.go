package processing

import (
	"math"

	"github.com/samber/lo"

	"github.com/ralpfi/prediction-engine-go/log"
	"github.com/ralpfi/prediction-engine-go/pkg/model"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/danger"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/lap"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/pace"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/probability"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/strategy"
	"github.com/ralpfi/prediction-engine-go/pkg/processing/tyre"
	"github.com/ralpfi/prediction-engine-go/pkg/utils/cache"
)

// assumed pace advantage (s/lap) of a chasing car when no better data exists
const defaultPaceDelta = 0.5

// a driver counts as losing time when the latest lap is this much slower
// than the rolling average
const losingTimeMargin = 0.5

// lap horizon for overtake estimates
const overtakeHorizonLaps = 5

// DRS opens for the car behind within this gap
const drsGapSeconds = 1.0

// PredictionEngine computes per-driver predictions for one update tick.
// All heavy lifting happens in the leaf packages; the engine wires them
// together and normalizes the result.
type PredictionEngine struct {
	cfg      *model.PredictionConfig
	roster   *model.Roster
	logger   *log.Logger
	lapCache cache.Cache[model.DriverRef, []model.LapRecord]
	cursor   int
}

type EngineOption func(e *PredictionEngine)

func WithConfig(cfg *model.PredictionConfig) EngineOption {
	return func(e *PredictionEngine) {
		e.cfg = cfg
	}
}

func WithRoster(roster *model.Roster) EngineOption {
	return func(e *PredictionEngine) {
		e.roster = roster
	}
}

func WithLogger(logger *log.Logger) EngineOption {
	return func(e *PredictionEngine) {
		e.logger = logger
	}
}

func NewPredictionEngine(opts ...EngineOption) *PredictionEngine {
	e := &PredictionEngine{
		cfg:      model.DefaultPredictionConfig(),
		roster:   model.NewRoster(),
		logger:   log.Default().Named("engine"),
		lapCache: cache.NewInMemory[model.DriverRef, []model.LapRecord](),
		cursor:   -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *PredictionEngine) Config() *model.PredictionConfig {
	return e.cfg
}

// CalculateAll computes predictions for every driver present in the frame
// at currentIdx. Win probabilities are normalized so they sum to 1.0
// across the returned set; podium probabilities are left as-is.
func (e *PredictionEngine) CalculateAll(
	frames []*model.Frame,
	currentIdx int,
	lapsRemaining int,
) map[string]*model.DriverPrediction {
	if len(frames) == 0 || currentIdx < 0 {
		return map[string]*model.DriverPrediction{}
	}
	currentIdx = min(currentIdx, len(frames)-1)

	// lap histories are memoized per tick only; a moved cursor (including
	// replay scrubbing backwards) drops everything
	if currentIdx != e.cursor {
		e.lapCache.InvalidateAll()
		e.cursor = currentIdx
	}

	frame := frames[currentIdx]
	refs := frame.Refs()
	if len(refs) == 0 {
		return map[string]*model.DriverPrediction{}
	}

	leaderRef, leaderFound := lo.Find(refs, func(r model.DriverRef) bool {
		s, _ := frame.State(r)
		return s.Position == 1
	})

	predictions := make(map[string]*model.DriverPrediction, len(refs))
	for _, ref := range refs {
		pred := e.calculateDriverPrediction(
			frames, currentIdx, ref, leaderRef, leaderFound, lapsRemaining)
		if pred != nil {
			predictions[pred.DriverCode] = pred
		}
	}

	totalWinProb := 0.0
	for _, p := range predictions {
		totalWinProb += p.WinProbability
	}
	if totalWinProb > 0 {
		for _, p := range predictions {
			p.WinProbability /= totalWinProb
		}
	}
	return predictions
}

//nolint:funlen // single pass over all adjustment stages
func (e *PredictionEngine) calculateDriverPrediction(
	frames []*model.Frame,
	currentIdx int,
	ref, leaderRef model.DriverRef,
	leaderFound bool,
	lapsRemaining int,
) *model.DriverPrediction {
	frame := frames[currentIdx]
	state, ok := frame.State(ref)
	if !ok {
		return nil
	}
	totalDrivers := len(frame.Refs())

	winProb := probability.BaseWinProbability(state.Position, totalDrivers)
	podiumProb := probability.BasePodiumProbability(state.Position, totalDrivers)

	var leaderState model.DriverState
	if leaderFound {
		leaderState, _ = frame.State(leaderRef)
	}

	if leaderFound && state.Position > 1 {
		gapSeconds := 0.0
		if gapMeters := leaderState.Dist - state.Dist; gapMeters > 0 {
			gapSeconds = gapMeters / probability.MetersPerSecond
		}
		winProb = probability.AdjustForGap(
			winProb, gapSeconds, lapsRemaining, defaultPaceDelta)
	}

	records := e.lapHistory(frames, currentIdx, ref)
	tyreState := tyre.EstimateDegradation(records)

	if leaderFound && leaderRef != ref {
		leaderTyreState := tyre.EstimateDegradation(
			e.lapHistory(frames, currentIdx, leaderRef))
		winProb = probability.AdjustForTyres(
			winProb,
			tyreState.LapsOnTyre, leaderTyreState.LapsOnTyre,
			int(state.Tyre), int(leaderState.Tyre),
		)
	}
	winProb = math.Min(0.999, math.Max(0.001, winProb))

	raceLap := state.Lap
	if leaderFound {
		raceLap = leaderState.Lap
	}
	totalLaps := raceLap + lapsRemaining

	window := strategy.CalculatePitWindow(
		tyreState, state.Lap, totalLaps, e.cfg.PitWindowBufferLaps)
	gapBehind := e.gapToCarBehind(frame, ref, state)
	shouldPit, reason := strategy.PitRecommendation(
		state.Lap, window, tyreState, gapBehind, e.isLosingTime(records))
	if shouldPit && e.logger.DebugEnabled() {
		options := strategy.ComparePitStrategies(
			state.Lap, lapsRemaining, tyreState, state.Position, totalDrivers)
		fields := []log.Field{
			log.String("driver", e.roster.Code(ref)),
			log.String("reason", reason),
		}
		if len(options) > 0 {
			fields = append(fields,
				log.String("bestStrategy", options[0].Strategy),
				log.Int("predictedFinish", options[0].PredictedFinish))
		}
		e.logger.Debug("pit recommendation", fields...)
	}

	dangerLevel, threatRef, threatened := danger.DetectDangerZones(
		frame, ref, e.cfg.DangerThresholdSeconds)
	threatDriver := ""
	if threatened {
		threatDriver = e.roster.Code(threatRef)
		e.reportOvertakeThreat(frames, currentIdx, ref, threatRef, records, gapBehind)
	}

	return &model.DriverPrediction{
		DriverCode:        e.roster.Code(ref),
		WinProbability:    winProb,
		PodiumProbability: podiumProb,
		PredictedFinish:   state.Position,
		PitWindow:         window,
		ShouldPitNow:      shouldPit,
		DangerLevel:       dangerLevel,
		ThreatDriver:      threatDriver,
		Confidence:        0.6,
	}
}

// reportOvertakeThreat logs when the car behind has a realistic shot at
// getting past within the overtake horizon. The closing rate comes from
// the two cars' rolling paces; a non-catching attacker closes at 0.
func (e *PredictionEngine) reportOvertakeThreat(
	frames []*model.Frame,
	currentIdx int,
	ref, threatRef model.DriverRef,
	records []model.LapRecord,
	gapBehind float64,
) {
	if !e.logger.DebugEnabled() {
		return
	}
	myPace := pace.CalculateRollingPace(records, e.cfg.PaceWindowLaps)
	attackerPace := pace.CalculateRollingPace(
		e.lapHistory(frames, currentIdx, threatRef), e.cfg.PaceWindowLaps)
	closingRate, trend := pace.PaceDelta(attackerPace, myPace)
	if trend != pace.TrendCatching {
		closingRate = 0.0
	}
	prob := danger.OvertakeProbability(
		gapBehind, closingRate, gapBehind <= drsGapSeconds, overtakeHorizonLaps)
	if prob < e.cfg.OvertakeProbabilityThreshold {
		return
	}
	e.logger.Debug("overtake threat",
		log.String("driver", e.roster.Code(ref)),
		log.String("attacker", e.roster.Code(threatRef)),
		log.Float64("gap", gapBehind),
		log.Float64("probability", prob))
}

func (e *PredictionEngine) lapHistory(
	frames []*model.Frame,
	currentIdx int,
	ref model.DriverRef,
) []model.LapRecord {
	if cached, ok := e.lapCache.Get(ref); ok {
		return *cached
	}
	records := lap.ExtractLapTimes(frames, ref, currentIdx+1)
	e.lapCache.Set(ref, &records)
	return records
}

// gapToCarBehind returns the time gap to the car one position behind, or
// a large sentinel when there is none.
func (e *PredictionEngine) gapToCarBehind(
	frame *model.Frame,
	ref model.DriverRef,
	state model.DriverState,
) float64 {
	for _, other := range frame.Refs() {
		if other == ref {
			continue
		}
		os, _ := frame.State(other)
		if os.Position == state.Position+1 {
			if gapMeters := state.Dist - os.Dist; gapMeters > 0 {
				return gapMeters / probability.MetersPerSecond
			}
			return 0.0
		}
	}
	return math.MaxFloat64
}

// isLosingTime reports whether the latest timed lap is noticeably slower
// than the rolling average.
func (e *PredictionEngine) isLosingTime(records []model.LapRecord) bool {
	rolling := pace.CalculateRollingPace(records, e.cfg.PaceWindowLaps)
	if rolling <= 0 {
		return false
	}
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Valid && records[i].Timed {
			return records[i].Time > rolling+losingTimeMargin
		}
	}
	return false
}
