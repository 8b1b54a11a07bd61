package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/metrics"
	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// mockWellnessRepository serves a fixed snapshot of logs for every user
type mockWellnessRepository struct {
	mu        sync.Mutex
	logs      models.WellnessLogs
	errs      map[string]error
	calls     int
	starts    []time.Time
	ends      []time.Time
	onCraving func(call int)
}

func (m *mockWellnessRepository) track(kind string, start, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.starts = append(m.starts, start)
	m.ends = append(m.ends, end)
	return m.errs[kind]
}

func (m *mockWellnessRepository) GetMoodLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MoodLog, error) {
	if err := m.track("mood", start, end); err != nil {
		return nil, err
	}
	return m.logs.Mood, nil
}

func (m *mockWellnessRepository) GetEnergyLogs(ctx context.Context, userID string, start, end time.Time) ([]models.EnergyLog, error) {
	if err := m.track("energy", start, end); err != nil {
		return nil, err
	}
	return m.logs.Energy, nil
}

func (m *mockWellnessRepository) GetFocusLogs(ctx context.Context, userID string, start, end time.Time) ([]models.FocusLog, error) {
	if err := m.track("focus", start, end); err != nil {
		return nil, err
	}
	return m.logs.Focus, nil
}

func (m *mockWellnessRepository) GetSleepLogs(ctx context.Context, userID string, start, end time.Time) ([]models.SleepLog, error) {
	if err := m.track("sleep", start, end); err != nil {
		return nil, err
	}
	return m.logs.Sleep, nil
}

func (m *mockWellnessRepository) GetCravingLogs(ctx context.Context, userID string, start, end time.Time) ([]models.CravingLog, error) {
	if err := m.track("craving", start, end); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls++
	call, hook := m.calls, m.onCraving
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return m.logs.Craving, nil
}

var testAnalysisConfig = config.AnalysisConfig{
	DefaultWindowDays: 30,
	MaxWindowDays:     366,
	DefaultTZOffset:   "+00:00",
}

var fixedNow = time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)

func newTestService(repo *mockWellnessRepository) *wellnessService {
	svc := NewWellnessService(repo, testAnalysisConfig, metrics.New()).(*wellnessService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sampleLogs() models.WellnessLogs {
	var logs models.WellnessLogs
	for i := 0; i < 7; i++ {
		ts := models.NewLogTime(time.Date(2024, 3, 20+i, 9, 0, 0, 0, time.UTC))
		logs.Mood = append(logs.Mood, models.MoodLog{ID: "m", Timestamp: ts, MoodScore: float64(1 + i%5)})
		logs.Energy = append(logs.Energy, models.EnergyLog{ID: "e", Timestamp: ts, EnergyLevel: float64(2 + 2*(i%5))})
		logs.Craving = append(logs.Craving, models.CravingLog{
			ID:        "c",
			Timestamp: models.NewLogTime(time.Date(2024, 3, 20+i, 15, 0, 0, 0, time.UTC)),
			Intensity: 6,
			Succeeded: true,
			Trigger:   "Stress",
		})
	}
	return logs
}

func TestWellnessService_AnalyzeDefaultWindow(t *testing.T) {
	repo := &mockWellnessRepository{logs: sampleLogs()}
	svc := newTestService(repo)

	result, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{})

	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", result.WindowStart)
	assert.Equal(t, "2024-03-31", result.WindowEnd)
	assert.Equal(t, 30, result.TotalDays)
	assert.Equal(t, 7, result.DaysWithData)
	assert.Equal(t, "user-1", result.UserID)
	assert.Equal(t, fixedNow, result.ComputedAt)
	assert.NotZero(t, result.Generation)
	assert.True(t, result.DataSufficient)

	require.NotEmpty(t, result.Correlations)
	top := result.Correlations[0]
	assert.ElementsMatch(t, []models.Metric{models.MetricMood, models.MetricEnergy}, []models.Metric{top.Factor1, top.Factor2})
	assert.InDelta(t, 1.0, top.Coefficient, 1e-9)

	require.Len(t, result.CravingPredictions, 1)
	assert.Equal(t, "3PM", result.CravingPredictions[0].TimeOfDay)

	require.Len(t, repo.starts, 5, "one fetch per log kind")
	for i := range repo.starts {
		assert.True(t, repo.starts[i].Equal(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
		assert.True(t, repo.ends[i].Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond)))
	}
}

func TestWellnessService_AnalyzeUsesLocation(t *testing.T) {
	repo := &mockWellnessRepository{}
	svc := newTestService(repo)
	loc := time.FixedZone("UTC+09:00", 9*3600)

	result, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{
		Start:    time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
		End:      time.Date(2024, 3, 3, 0, 0, 0, 0, loc),
		Location: loc,
	})

	require.NoError(t, err)
	assert.Equal(t, "UTC+09:00", result.Timezone)
	assert.Equal(t, 3, result.TotalDays)
	assert.False(t, result.DataSufficient)
	assert.True(t, repo.starts[0].Equal(time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC)))
}

func TestWellnessService_InvalidWindow(t *testing.T) {
	tests := []struct {
		name string
		req  AnalysisRequest
	}{
		{
			name: "start after end",
			req: AnalysisRequest{
				Start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "too long",
			req: AnalysisRequest{
				Start: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockWellnessRepository{}
			_, err := newTestService(repo).Analyze(context.Background(), "user-1", tt.req)

			assert.ErrorIs(t, err, ErrInvalidWindow)
			assert.Empty(t, repo.starts, "no fetch for an invalid window")
		})
	}
}

func TestWellnessService_FetchError(t *testing.T) {
	storeErr := errors.New("connection refused")
	repo := &mockWellnessRepository{errs: map[string]error{"sleep": storeErr}}

	_, err := newTestService(repo).Analyze(context.Background(), "user-1", AnalysisRequest{})

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "sleep", fetchErr.Kind)
	assert.ErrorIs(t, err, storeErr)
	assert.False(t, fetchErr.Temporary())
}

func TestWellnessService_NewerRequestSupersedes(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	repo := &mockWellnessRepository{logs: sampleLogs()}
	repo.onCraving = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	svc := newTestService(repo)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{})
		errc <- err
	}()

	<-entered
	earlier := AnalysisRequest{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}
	second, err := svc.Analyze(context.Background(), "user-1", earlier)
	require.NoError(t, err)
	close(release)

	first := <-errc
	require.ErrorIs(t, first, ErrSuperseded)
	assert.True(t, IsSuperseded(first))

	var superseded *SupersededError
	require.ErrorAs(t, first, &superseded)
	assert.Equal(t, second.Generation, superseded.Latest)
	assert.Less(t, superseded.Generation, second.Generation)
}

func TestWellnessService_SameWindowRequestsShareGeneration(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	repo := &mockWellnessRepository{logs: sampleLogs()}
	repo.onCraving = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	svc := newTestService(repo)

	type outcome struct {
		correlations []models.CorrelationResult
		err          error
	}
	done := make(chan outcome, 1)
	go func() {
		correlations, err := svc.GetCorrelations(context.Background(), "user-1", AnalysisRequest{})
		done <- outcome{correlations, err}
	}()

	<-entered
	trends, err := svc.GetTrends(context.Background(), "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, trends)
	close(release)

	got := <-done
	require.NoError(t, got.err)
	assert.NotEmpty(t, got.correlations)
	assert.Zero(t, svc.generations.tracked())
}

func TestWellnessService_AnalyzeReleasesGeneration(t *testing.T) {
	svc := newTestService(&mockWellnessRepository{logs: sampleLogs()})

	first, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{})
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), "user-2", AnalysisRequest{})
	require.NoError(t, err)

	assert.Zero(t, svc.generations.tracked())

	again, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.Greater(t, again.Generation, first.Generation)
}

func TestWellnessService_OtherUsersDoNotSupersede(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	repo := &mockWellnessRepository{logs: sampleLogs()}
	repo.onCraving = func(call int) {
		if call == 1 {
			close(entered)
			<-release
		}
	}
	svc := newTestService(repo)

	errc := make(chan error, 1)
	go func() {
		_, err := svc.Analyze(context.Background(), "user-1", AnalysisRequest{})
		errc <- err
	}()

	<-entered
	_, err := svc.Analyze(context.Background(), "user-2", AnalysisRequest{})
	require.NoError(t, err)
	close(release)

	assert.NoError(t, <-errc)
}

func TestWellnessService_Slices(t *testing.T) {
	svc := newTestService(&mockWellnessRepository{logs: sampleLogs()})
	ctx := context.Background()

	days, err := svc.GetDailyMetrics(ctx, "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.Len(t, days, 30)

	correlations, err := svc.GetCorrelations(ctx, "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, correlations)

	predictions, err := svc.GetCravingPredictions(ctx, "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.Len(t, predictions, 1)

	trends, err := svc.GetTrends(ctx, "user-1", AnalysisRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, trends)
}

func TestWellnessService_AnalyzeLogs(t *testing.T) {
	repo := &mockWellnessRepository{}
	svc := newTestService(repo)

	result, err := svc.AnalyzeLogs(context.Background(), models.AnalyzeLogsRequest{
		WellnessLogs: sampleLogs(),
		StartDate:    "2024-03-20",
		EndDate:      "2024-03-26",
		TZOffset:     "+00:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, result.TotalDays)
	assert.Equal(t, 7, result.DaysWithData)
	assert.Empty(t, result.UserID)
	assert.NotZero(t, result.Generation)
	assert.Empty(t, repo.starts, "stateless analysis never reads the store")
}

func TestWellnessService_AnalyzeLogsRejectsBadParams(t *testing.T) {
	svc := newTestService(&mockWellnessRepository{})

	_, err := svc.AnalyzeLogs(context.Background(), models.AnalyzeLogsRequest{
		StartDate: "2024-03-20",
		EndDate:   "2024-03-26",
		TZOffset:  "PST",
	})

	var paramErr *ParamError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, ParamTimezone, paramErr.Kind)
}
