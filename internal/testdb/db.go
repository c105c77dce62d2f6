// Package testdb opens the integration test database. Tests that use it are
// skipped unless TASKER_TEST_DB_URL or DATABASE_URL is set.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup operations against the test database.
const TestTimeout = 10 * time.Second

// URL returns the test database URL. TASKER_TEST_DB_URL takes precedence
// over DATABASE_URL.
func URL() string {
	if u := os.Getenv("TASKER_TEST_DB_URL"); u != "" {
		return u
	}
	return os.Getenv("DATABASE_URL")
}

// Open connects to the test database and applies all migrations. The
// connection is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := URL()
	if dbURL == "" {
		t.Skip("TASKER_TEST_DB_URL or DATABASE_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database: %v", err)
		}
	})

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, postgres.Migrate(ctx, db, postgres.MigrateUp, quiet), "Failed to run migrations")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
