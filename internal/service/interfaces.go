package service

import (
	"context"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// AnalysisRequest selects the window and location of one analysis pass.
// Zero Start or End fall back to the configured default window.
type AnalysisRequest struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// WellnessService defines the interface for wellness analysis
type WellnessService interface {
	// Analyze fetches a user's logs for the window and runs a full pass.
	Analyze(ctx context.Context, userID string, req AnalysisRequest) (*models.AnalysisResult, error)
	// AnalyzeLogs runs a full pass over caller-supplied logs without touching storage.
	AnalyzeLogs(ctx context.Context, req models.AnalyzeLogsRequest) (*models.AnalysisResult, error)

	GetDailyMetrics(ctx context.Context, userID string, req AnalysisRequest) ([]models.DailyMetric, error)
	GetCorrelations(ctx context.Context, userID string, req AnalysisRequest) ([]models.CorrelationResult, error)
	GetCravingPredictions(ctx context.Context, userID string, req AnalysisRequest) ([]models.CravingPrediction, error)
	GetTrends(ctx context.Context, userID string, req AnalysisRequest) ([]models.MetricTrend, error)
}
