package repository

import (
	"context"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

// Log tables, shared by every store
const (
	TableMoodLogs    = "mood_logs"
	TableEnergyLogs  = "energy_logs"
	TableFocusLogs   = "focus_logs"
	TableSleepLogs   = "sleep_logs"
	TableCravingLogs = "craving_logs"
)

// WellnessLogRepository defines read access to a user's wellness logs. Every
// method returns the logs with start <= logged_at <= end, oldest first.
type WellnessLogRepository interface {
	GetMoodLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MoodLog, error)
	GetEnergyLogs(ctx context.Context, userID string, start, end time.Time) ([]models.EnergyLog, error)
	GetFocusLogs(ctx context.Context, userID string, start, end time.Time) ([]models.FocusLog, error)
	GetSleepLogs(ctx context.Context, userID string, start, end time.Time) ([]models.SleepLog, error)
	GetCravingLogs(ctx context.Context, userID string, start, end time.Time) ([]models.CravingLog, error)
}
