package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/breathe/backend/internal/apierror"
	"github.com/JonnyWalker81/breathe/backend/internal/models"
	"github.com/JonnyWalker81/breathe/backend/internal/service"
	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockWellnessService records the last request and returns canned results
type mockWellnessService struct {
	err       error
	result    *models.AnalysisResult
	lastUser  string
	lastReq   service.AnalysisRequest
	lastLogs  models.AnalyzeLogsRequest
	analyzeFn func(req service.AnalysisRequest) (*models.AnalysisResult, error)
}

func (m *mockWellnessService) Analyze(ctx context.Context, userID string, req service.AnalysisRequest) (*models.AnalysisResult, error) {
	m.lastUser, m.lastReq = userID, req
	if m.analyzeFn != nil {
		return m.analyzeFn(req)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockWellnessService) AnalyzeLogs(ctx context.Context, req models.AnalyzeLogsRequest) (*models.AnalysisResult, error) {
	m.lastLogs = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockWellnessService) GetDailyMetrics(ctx context.Context, userID string, req service.AnalysisRequest) ([]models.DailyMetric, error) {
	r, err := m.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return r.DailyMetrics, nil
}

func (m *mockWellnessService) GetCorrelations(ctx context.Context, userID string, req service.AnalysisRequest) ([]models.CorrelationResult, error) {
	r, err := m.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return r.Correlations, nil
}

func (m *mockWellnessService) GetCravingPredictions(ctx context.Context, userID string, req service.AnalysisRequest) ([]models.CravingPrediction, error) {
	r, err := m.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return r.CravingPredictions, nil
}

func (m *mockWellnessService) GetTrends(ctx context.Context, userID string, req service.AnalysisRequest) ([]models.MetricTrend, error) {
	r, err := m.Analyze(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return r.Trends, nil
}

func emptyResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Generation:         3,
		UserID:             "user-1",
		DailyMetrics:       []models.DailyMetric{{Date: "2024-03-01"}},
		Correlations:       []models.CorrelationResult{},
		CravingPredictions: []models.CravingPrediction{},
		Trends:             []models.MetricTrend{},
		WeeklySummary:      []models.WeeklySummary{},
	}
}

func newTestRouter(svc service.WellnessService) *gin.Engine {
	h := NewWellnessHandler(svc, "+00:00")

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("request_id", "req-1")
		c.Next()
	})
	RegisterWellnessRoutes(r.Group("/api/v1"), h)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) apierror.ProblemDetails {
	t.Helper()
	assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	var p apierror.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestGetAnalysis_ParsesWindow(t *testing.T) {
	svc := &mockWellnessService{result: emptyResult()}
	r := newTestRouter(svc)

	w := serve(r, http.MethodGet, "/api/v1/wellness/analysis?start_date=2024-03-01&end_date=2024-03-07&tz_offset=%2B05:30", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", svc.lastUser)
	_, offset := svc.lastReq.Start.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
	assert.Equal(t, 7, svc.lastReq.End.Day())

	var body models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint64(3), body.Generation)
	assert.False(t, body.DataSufficient)
}

func TestGetAnalysis_UnescapedPlusOffset(t *testing.T) {
	svc := &mockWellnessService{result: emptyResult()}

	w := serve(newTestRouter(svc), http.MethodGet, "/api/v1/wellness/analysis?tz_offset=+02:00", "")

	require.Equal(t, http.StatusOK, w.Code)
	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, svc.lastReq.Location).Zone()
	assert.Equal(t, 2*3600, offset)
}

func TestGetAnalysis_DefaultsLeaveWindowToService(t *testing.T) {
	svc := &mockWellnessService{result: emptyResult()}

	w := serve(newTestRouter(svc), http.MethodGet, "/api/v1/wellness/analysis", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.lastReq.Start.IsZero())
	assert.True(t, svc.lastReq.End.IsZero())
	assert.Equal(t, time.UTC, svc.lastReq.Location)
}

func TestGetAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantType   string
	}{
		{"bad date", "?start_date=yesterday", nil, http.StatusBadRequest, apierror.TypeInvalidDate},
		{"bad offset", "?tz_offset=PST", nil, http.StatusBadRequest, apierror.TypeInvalidTimezone},
		{"invalid window", "", fmt.Errorf("%w: start after end", service.ErrInvalidWindow), http.StatusBadRequest, apierror.TypeInvalidWindow},
		{"superseded", "", &service.SupersededError{Generation: 1, Latest: 2}, http.StatusConflict, apierror.TypeSuperseded},
		{"store down", "", &service.FetchError{Kind: "mood", Err: &supabase.Error{StatusCode: http.StatusBadGateway}}, http.StatusServiceUnavailable, apierror.TypeUnavailable},
		{"store rejects", "", &service.FetchError{Kind: "mood", Err: &supabase.Error{StatusCode: http.StatusBadRequest}}, http.StatusInternalServerError, apierror.TypeInternal},
		{"unexpected", "", errors.New("boom"), http.StatusInternalServerError, apierror.TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWellnessService{err: tt.err, result: emptyResult()}

			w := serve(newTestRouter(svc), http.MethodGet, "/api/v1/wellness/analysis"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			p := decodeProblem(t, w)
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, "req-1", p.RequestID)
			assert.NotContains(t, p.Detail, "boom", "internal details are hidden")
		})
	}
}

func TestGetAnalysis_SupersededCarriesLatestGeneration(t *testing.T) {
	svc := &mockWellnessService{err: &service.SupersededError{Generation: 4, Latest: 6}}

	w := serve(newTestRouter(svc), http.MethodGet, "/api/v1/wellness/analysis", "")

	p := decodeProblem(t, w)
	require.NotNil(t, p.Generation)
	assert.Equal(t, uint64(6), *p.Generation)
	assert.Equal(t, "retry", p.Action)
}

func TestSliceEndpoints(t *testing.T) {
	result := emptyResult()
	v := 3.0
	result.DailyMetrics = []models.DailyMetric{{Date: "2024-03-01", Mood: &v}}
	result.Correlations = []models.CorrelationResult{{Factor1: models.MetricMood, Factor2: models.MetricEnergy, Coefficient: 0.8}}
	result.Trends = []models.MetricTrend{{Metric: models.MetricMood, TrendResult: models.TrendResult{Direction: models.TrendStable, DataPoints: 2}}}

	tests := []struct {
		path           string
		key            string
		wantLen        int
		wantSufficient bool
	}{
		{"/api/v1/wellness/daily-metrics", "daily_metrics", 1, true},
		{"/api/v1/wellness/correlations", "correlations", 1, true},
		{"/api/v1/wellness/craving-predictions", "craving_predictions", 0, false},
		{"/api/v1/wellness/trends", "trends", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			w := serve(newTestRouter(&mockWellnessService{result: result}), http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, w.Code)

			var body map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

			var items []json.RawMessage
			require.NoError(t, json.Unmarshal(body[tt.key], &items))
			assert.NotNil(t, items, "empty results are [] not null")
			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, fmt.Sprint(tt.wantSufficient), string(body["data_sufficient"]))
		})
	}
}

func TestAnalyzeLogs(t *testing.T) {
	svc := &mockWellnessService{result: emptyResult()}

	body := `{
		"start_date": "2024-03-01",
		"end_date": "2024-03-07",
		"mood_logs": [{"id": "m1", "timestamp": "2024-03-01T09:00:00Z", "mood_score": 4}],
		"craving_logs": [{"id": "c1", "timestamp": "garbage", "intensity": 5, "trigger": "Stress"}]
	}`
	w := serve(newTestRouter(svc), http.MethodPost, "/api/v1/wellness/analyze", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+00:00", svc.lastLogs.TZOffset, "default offset applied")
	require.Len(t, svc.lastLogs.Mood, 1)
	require.Len(t, svc.lastLogs.Craving, 1)
	assert.False(t, svc.lastLogs.Craving[0].Timestamp.Valid)
}

func TestAnalyzeLogs_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"start_date":`},
		{"missing dates", `{"mood_logs": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(newTestRouter(&mockWellnessService{}), http.MethodPost, "/api/v1/wellness/analyze", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apierror.TypeBadRequest, decodeProblem(t, w).Type)
		})
	}
}
