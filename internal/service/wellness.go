package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/breathe/backend/internal/analytics"
	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/logger"
	"github.com/JonnyWalker81/breathe/backend/internal/metrics"
	"github.com/JonnyWalker81/breathe/backend/internal/models"
	"github.com/JonnyWalker81/breathe/backend/internal/repository"
)

type wellnessService struct {
	repo        repository.WellnessLogRepository
	cfg         config.AnalysisConfig
	metrics     *metrics.Metrics
	generations *generationTracker
	now         func() time.Time
}

// NewWellnessService creates a new wellness analysis service
func NewWellnessService(repo repository.WellnessLogRepository, cfg config.AnalysisConfig, m *metrics.Metrics) WellnessService {
	return &wellnessService{
		repo:        repo,
		cfg:         cfg,
		metrics:     m,
		generations: newGenerationTracker(),
		now:         time.Now,
	}
}

func (s *wellnessService) Analyze(ctx context.Context, userID string, req AnalysisRequest) (*models.AnalysisResult, error) {
	started := s.now()

	window, opts, err := s.resolveWindow(req)
	if err != nil {
		return nil, err
	}

	gen := s.generations.start(userID, newWindowKey(window, opts.Location))
	defer s.generations.finish(userID)
	ctx = logger.WithGeneration(ctx, gen)
	log := logger.Ctx(ctx)

	log.Debug("analysis started",
		logger.String("window_start", window.Start.Format(time.RFC3339)),
		logger.String("window_end", window.End.Format(time.RFC3339)),
		logger.String("timezone", opts.Location.String()),
	)

	logs, err := s.fetchLogs(ctx, userID, window)
	if err != nil {
		s.metrics.RecordAnalysis(metrics.OutcomeError, s.now().Sub(started))
		log.Error("analysis fetch failed", logger.Err(err))
		return nil, err
	}

	// A newer request already owns this user; skip the computation
	if latest := s.generations.newest(userID); latest != gen {
		return nil, s.discard(ctx, gen, latest, started)
	}

	result := s.compute(logs, window, opts, gen)
	result.UserID = userID

	if latest := s.generations.newest(userID); latest != gen {
		return nil, s.discard(ctx, gen, latest, started)
	}

	s.record(ctx, result, logs.Total(), started)
	return result, nil
}

func (s *wellnessService) AnalyzeLogs(ctx context.Context, req models.AnalyzeLogsRequest) (*models.AnalysisResult, error) {
	started := s.now()

	parsed, err := ParseAnalysisRequest(req.StartDate, req.EndDate, req.TZOffset)
	if err != nil {
		return nil, err
	}
	window, opts, err := s.resolveWindow(parsed)
	if err != nil {
		return nil, err
	}

	gen := s.generations.anonymous()
	ctx = logger.WithGeneration(ctx, gen)

	result := s.compute(req.WellnessLogs, window, opts, gen)
	s.record(ctx, result, req.WellnessLogs.Total(), started)
	return result, nil
}

func (s *wellnessService) GetDailyMetrics(ctx context.Context, userID string, req AnalysisRequest) ([]models.DailyMetric, error) {
	result, err := s.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return result.DailyMetrics, nil
}

func (s *wellnessService) GetCorrelations(ctx context.Context, userID string, req AnalysisRequest) ([]models.CorrelationResult, error) {
	result, err := s.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return result.Correlations, nil
}

func (s *wellnessService) GetCravingPredictions(ctx context.Context, userID string, req AnalysisRequest) ([]models.CravingPrediction, error) {
	result, err := s.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return result.CravingPredictions, nil
}

func (s *wellnessService) GetTrends(ctx context.Context, userID string, req AnalysisRequest) ([]models.MetricTrend, error) {
	result, err := s.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return result.Trends, nil
}

// resolveWindow applies the default window and location and validates the
// result. The returned window spans whole local days.
func (s *wellnessService) resolveWindow(req AnalysisRequest) (analytics.Window, analytics.Options, error) {
	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	end := req.End
	if end.IsZero() {
		end = s.now()
	}
	end = startOfDay(end, loc)

	start := req.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -(s.cfg.DefaultWindowDays - 1))
	}
	start = startOfDay(start, loc)

	if start.After(end) {
		return analytics.Window{}, analytics.Options{}, fmt.Errorf("%w: start_date %s is after end_date %s",
			ErrInvalidWindow, start.Format(models.DateLayout), end.Format(models.DateLayout))
	}
	if s.cfg.MaxWindowDays > 0 {
		if days := calendarDays(start, end); days > s.cfg.MaxWindowDays {
			return analytics.Window{}, analytics.Options{}, fmt.Errorf("%w: %d days exceeds the maximum of %d",
				ErrInvalidWindow, days, s.cfg.MaxWindowDays)
		}
	}

	// End covers the whole last day
	window := analytics.Window{Start: start, End: end.AddDate(0, 0, 1).Add(-time.Nanosecond)}
	return window, analytics.Options{Location: loc}, nil
}

// fetchLogs loads every log kind concurrently. The first failure cancels the
// remaining fetches.
func (s *wellnessService) fetchLogs(ctx context.Context, userID string, window analytics.Window) (models.WellnessLogs, error) {
	var logs models.WellnessLogs
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(kind string, run func(ctx context.Context) error) {
		g.Go(func() error {
			started := s.now()
			err := run(gctx)
			s.metrics.RecordFetch(kind, s.now().Sub(started))
			if err != nil {
				return &FetchError{Kind: kind, Err: err}
			}
			return nil
		})
	}

	fetch("mood", func(ctx context.Context) (err error) {
		logs.Mood, err = s.repo.GetMoodLogs(ctx, userID, window.Start, window.End)
		return err
	})
	fetch("energy", func(ctx context.Context) (err error) {
		logs.Energy, err = s.repo.GetEnergyLogs(ctx, userID, window.Start, window.End)
		return err
	})
	fetch("focus", func(ctx context.Context) (err error) {
		logs.Focus, err = s.repo.GetFocusLogs(ctx, userID, window.Start, window.End)
		return err
	})
	fetch("sleep", func(ctx context.Context) (err error) {
		logs.Sleep, err = s.repo.GetSleepLogs(ctx, userID, window.Start, window.End)
		return err
	})
	fetch("craving", func(ctx context.Context) (err error) {
		logs.Craving, err = s.repo.GetCravingLogs(ctx, userID, window.Start, window.End)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.WellnessLogs{}, err
	}
	return logs, nil
}

func (s *wellnessService) compute(logs models.WellnessLogs, window analytics.Window, opts analytics.Options, gen uint64) *models.AnalysisResult {
	result := analytics.Analyze(logs, window, opts)
	result.Generation = gen
	result.ComputedAt = s.now().UTC()
	return &result
}

func (s *wellnessService) discard(ctx context.Context, gen, latest uint64, started time.Time) error {
	s.metrics.RecordAnalysis(metrics.OutcomeSuperseded, s.now().Sub(started))
	logger.Ctx(ctx).Info("analysis superseded", logger.Uint64("latest_generation", latest))
	return &SupersededError{Generation: gen, Latest: latest}
}

func (s *wellnessService) record(ctx context.Context, result *models.AnalysisResult, total int, started time.Time) {
	elapsed := s.now().Sub(started)

	outcome := metrics.OutcomeSuccess
	if !result.DataSufficient {
		outcome = metrics.OutcomeInsufficient
	}
	s.metrics.RecordAnalysis(outcome, elapsed)
	s.metrics.RecordSkipped(metrics.ReasonMalformedTimestamp, result.Diagnostics.SkippedLogs)
	s.metrics.RecordSkipped(metrics.ReasonOutOfRange, result.Diagnostics.OutOfRangeValues)
	s.metrics.RecordSkipped(metrics.ReasonUnrecognizedTrigger, result.Diagnostics.UnrecognizedTriggers)

	fields := []logger.Field{
		logger.Int("logs", total),
		logger.Int("days_with_data", result.DaysWithData),
		logger.Int("correlations", len(result.Correlations)),
		logger.Bool("data_sufficient", result.DataSufficient),
		logger.Duration("elapsed", elapsed),
	}
	if d := result.Diagnostics; d.SkippedLogs > 0 || d.OutOfRangeValues > 0 || d.UnrecognizedTriggers > 0 {
		fields = append(fields,
			logger.Int("skipped_logs", d.SkippedLogs),
			logger.Int("out_of_range_values", d.OutOfRangeValues),
			logger.Int("unrecognized_triggers", d.UnrecognizedTriggers),
		)
	}
	logger.Ctx(ctx).Info("analysis completed", fields...)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// calendarDays counts the dates from start to end inclusive
func calendarDays(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// IsSuperseded reports whether err means a newer analysis replaced this one
func IsSuperseded(err error) bool {
	return errors.Is(err, ErrSuperseded)
}
