package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
	"github.com/JonnyWalker81/breathe/backend/pkg/supabase"
)

// PageSize is the number of rows requested per PostgREST page
const PageSize = 1000

// Column lists rename logged_at to the model's timestamp field
const (
	moodColumns    = "id,user_id,timestamp:logged_at,mood_score,notes"
	energyColumns  = "id,user_id,timestamp:logged_at,energy_level"
	focusColumns   = "id,user_id,timestamp:logged_at,focus_level"
	sleepColumns   = "id,user_id,timestamp:logged_at,sleep_quality,duration"
	cravingColumns = "id,user_id,timestamp:logged_at,intensity,succeeded,trigger,location"
)

type wellnessLogRepository struct {
	client *supabase.Client
}

// NewWellnessLogRepository creates a wellness log repository backed by Supabase
func NewWellnessLogRepository(client *supabase.Client) WellnessLogRepository {
	return &wellnessLogRepository{client: client}
}

func (r *wellnessLogRepository) GetMoodLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MoodLog, error) {
	return fetchAll[models.MoodLog](ctx, r.client, TableMoodLogs, moodColumns, userID, start, end)
}

func (r *wellnessLogRepository) GetEnergyLogs(ctx context.Context, userID string, start, end time.Time) ([]models.EnergyLog, error) {
	return fetchAll[models.EnergyLog](ctx, r.client, TableEnergyLogs, energyColumns, userID, start, end)
}

func (r *wellnessLogRepository) GetFocusLogs(ctx context.Context, userID string, start, end time.Time) ([]models.FocusLog, error) {
	return fetchAll[models.FocusLog](ctx, r.client, TableFocusLogs, focusColumns, userID, start, end)
}

func (r *wellnessLogRepository) GetSleepLogs(ctx context.Context, userID string, start, end time.Time) ([]models.SleepLog, error) {
	return fetchAll[models.SleepLog](ctx, r.client, TableSleepLogs, sleepColumns, userID, start, end)
}

func (r *wellnessLogRepository) GetCravingLogs(ctx context.Context, userID string, start, end time.Time) ([]models.CravingLog, error) {
	return fetchAll[models.CravingLog](ctx, r.client, TableCravingLogs, cravingColumns, userID, start, end)
}

// fetchAll pages through table until a short page is returned
func fetchAll[T any](ctx context.Context, client *supabase.Client, table, columns, userID string, start, end time.Time) ([]T, error) {
	logs := make([]T, 0)

	for offset := 0; ; offset += PageSize {
		query := url.Values{}
		query.Set("select", columns)
		query.Set("user_id", fmt.Sprintf("eq.%s", userID))
		query.Set("and", fmt.Sprintf("(logged_at.gte.%s,logged_at.lte.%s)",
			start.UTC().Format(time.RFC3339Nano), end.UTC().Format(time.RFC3339Nano)))
		query.Set("order", "logged_at.asc,id.asc")
		query.Set("limit", strconv.Itoa(PageSize))
		query.Set("offset", strconv.Itoa(offset))

		body, err := client.Query(ctx, table, query)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", table, err)
		}

		var page []T
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", table, err)
		}

		logs = append(logs, page...)
		if len(page) < PageSize {
			return logs, nil
		}
	}
}
