package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
)

// handleMigrations runs a goose command against db. Each run is tagged with
// a correlation ID so its log lines can be grouped.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("correlation_id", uuid.NewString()))

	log.Info("Executing migrations", "command", command)
	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		log.Error("Migration failed", "command", command, "error", err)
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	log.Info("Migrations finished", "command", command)
	return nil
}
