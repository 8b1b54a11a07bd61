package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/breathe/backend/internal/config"
	"github.com/JonnyWalker81/breathe/backend/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Manage the Postgres log store schema",
	Long:      `Apply, roll back or list the embedded SQL migrations against DATABASE_URL.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE:      runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	db, err := config.LoadDatabase()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := repository.NewMigrator(db.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch direction {
	case "down":
		result, err := m.Down(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "rolled back %s (%s)\n", result.Source.Path, result.Duration)

	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			applied := "pending"
			if !s.AppliedAt.IsZero() {
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(out, "%-40s %s\n", s.Source.Path, applied)
		}

	default:
		results, err := m.Up(ctx)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "no pending migrations")
		}
		for _, r := range results {
			fmt.Fprintf(out, "applied %s (%s)\n", r.Source.Path, r.Duration)
		}
	}

	return nil
}
