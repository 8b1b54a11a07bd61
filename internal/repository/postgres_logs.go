package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/JonnyWalker81/breathe/backend/internal/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Rows as stored in Postgres. Nullable text columns are coalesced to ""
// in the query.
type (
	moodRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		LoggedAt  time.Time `db:"logged_at"`
		MoodScore float64   `db:"mood_score"`
		Notes     string    `db:"notes"`
	}
	energyRow struct {
		ID          string    `db:"id"`
		UserID      string    `db:"user_id"`
		LoggedAt    time.Time `db:"logged_at"`
		EnergyLevel float64   `db:"energy_level"`
	}
	focusRow struct {
		ID         string    `db:"id"`
		UserID     string    `db:"user_id"`
		LoggedAt   time.Time `db:"logged_at"`
		FocusLevel float64   `db:"focus_level"`
	}
	sleepRow struct {
		ID           string    `db:"id"`
		UserID       string    `db:"user_id"`
		LoggedAt     time.Time `db:"logged_at"`
		SleepQuality float64   `db:"sleep_quality"`
		Duration     float64   `db:"duration"`
	}
	cravingRow struct {
		ID        string    `db:"id"`
		UserID    string    `db:"user_id"`
		LoggedAt  time.Time `db:"logged_at"`
		Intensity float64   `db:"intensity"`
		Succeeded bool      `db:"succeeded"`
		Trigger   string    `db:"trigger"`
		Location  string    `db:"location"`
	}
)

type postgresLogRepository struct {
	db pgxscan.Querier
}

// NewPostgresLogRepository creates a wellness log repository that reads
// directly from Postgres. db is usually a *pgxpool.Pool.
func NewPostgresLogRepository(db pgxscan.Querier) WellnessLogRepository {
	return &postgresLogRepository{db: db}
}

func (r *postgresLogRepository) GetMoodLogs(ctx context.Context, userID string, start, end time.Time) ([]models.MoodLog, error) {
	q := logQuery(TableMoodLogs, userID, start, end, "mood_score", "COALESCE(notes, '') AS notes")
	return selectLogs(ctx, r.db, TableMoodLogs, q, func(row moodRow) models.MoodLog {
		return models.MoodLog{
			ID:        row.ID,
			UserID:    row.UserID,
			Timestamp: models.NewLogTime(row.LoggedAt),
			MoodScore: row.MoodScore,
			Notes:     optional(row.Notes),
		}
	})
}

func (r *postgresLogRepository) GetEnergyLogs(ctx context.Context, userID string, start, end time.Time) ([]models.EnergyLog, error) {
	q := logQuery(TableEnergyLogs, userID, start, end, "energy_level")
	return selectLogs(ctx, r.db, TableEnergyLogs, q, func(row energyRow) models.EnergyLog {
		return models.EnergyLog{
			ID:          row.ID,
			UserID:      row.UserID,
			Timestamp:   models.NewLogTime(row.LoggedAt),
			EnergyLevel: row.EnergyLevel,
		}
	})
}

func (r *postgresLogRepository) GetFocusLogs(ctx context.Context, userID string, start, end time.Time) ([]models.FocusLog, error) {
	q := logQuery(TableFocusLogs, userID, start, end, "focus_level")
	return selectLogs(ctx, r.db, TableFocusLogs, q, func(row focusRow) models.FocusLog {
		return models.FocusLog{
			ID:         row.ID,
			UserID:     row.UserID,
			Timestamp:  models.NewLogTime(row.LoggedAt),
			FocusLevel: row.FocusLevel,
		}
	})
}

func (r *postgresLogRepository) GetSleepLogs(ctx context.Context, userID string, start, end time.Time) ([]models.SleepLog, error) {
	q := logQuery(TableSleepLogs, userID, start, end, "sleep_quality", "duration")
	return selectLogs(ctx, r.db, TableSleepLogs, q, func(row sleepRow) models.SleepLog {
		return models.SleepLog{
			ID:           row.ID,
			UserID:       row.UserID,
			Timestamp:    models.NewLogTime(row.LoggedAt),
			SleepQuality: row.SleepQuality,
			Duration:     row.Duration,
		}
	})
}

func (r *postgresLogRepository) GetCravingLogs(ctx context.Context, userID string, start, end time.Time) ([]models.CravingLog, error) {
	q := logQuery(TableCravingLogs, userID, start, end,
		"intensity", "succeeded", `COALESCE("trigger", '') AS "trigger"`, "COALESCE(location, '') AS location")
	return selectLogs(ctx, r.db, TableCravingLogs, q, func(row cravingRow) models.CravingLog {
		return models.CravingLog{
			ID:        row.ID,
			UserID:    row.UserID,
			Timestamp: models.NewLogTime(row.LoggedAt),
			Intensity: row.Intensity,
			Succeeded: row.Succeeded,
			Trigger:   row.Trigger,
			Location:  optional(row.Location),
		}
	})
}

// logQuery selects the common columns plus extra from table for one user
// and an inclusive window.
func logQuery(table, userID string, start, end time.Time, extra ...string) sq.SelectBuilder {
	columns := append([]string{"id::text AS id", "user_id::text AS user_id", "logged_at"}, extra...)
	return psql.Select(columns...).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"logged_at": start}).
		Where(sq.LtOrEq{"logged_at": end}).
		OrderBy("logged_at ASC", "id ASC")
}

func selectLogs[R, T any](ctx context.Context, db pgxscan.Querier, table string, q sq.SelectBuilder, convert func(R) T) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", table, err)
	}

	var rows []R
	if err := pgxscan.Select(ctx, db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table, err)
	}

	logs := make([]T, len(rows))
	for i, row := range rows {
		logs[i] = convert(row)
	}
	return logs, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
