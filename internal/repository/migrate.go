package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/JonnyWalker81/breathe/backend/migrations"
)

// Migrator applies the embedded goose migrations to a Postgres database
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
}

// NewMigrator opens databaseURL and prepares a goose provider over the
// embedded migrations.
func NewMigrator(databaseURL string) (*Migrator, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	m, err := newMigrator(db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

func newMigrator(db *sql.DB, fsys fs.FS) (*Migrator, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	return &Migrator{db: db, provider: provider}, nil
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("apply migrations: %w", err)
	}
	return results, nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	result, err := m.provider.Down(ctx)
	if err != nil {
		return result, fmt.Errorf("roll back migration: %w", err)
	}
	return result, nil
}

// Status reports every known migration and whether it is applied
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	return m.provider.Status(ctx)
}

// Close releases the underlying connection
func (m *Migrator) Close() error {
	return m.db.Close()
}
