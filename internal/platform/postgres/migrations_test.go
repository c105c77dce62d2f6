package postgres

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	var all strings.Builder
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"), e.Name())
		data, err := fs.ReadFile(migrationFS, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up")
		assert.Contains(t, string(data), "-- +goose Down")
		all.Write(data)
	}

	schema := all.String()
	assert.Contains(t, schema, "CONSTRAINT "+usersEmailUniqueConstraint+" UNIQUE (email)")
	assert.Contains(t, schema, "CONSTRAINT "+tasksUserForeignKey+" FOREIGN KEY")
	assert.Contains(t, schema, "ON DELETE CASCADE")
	assert.Contains(t, schema, "(user_id, created_at DESC, id DESC)")
}

func TestMigrate_UnknownCommand(t *testing.T) {
	db, _ := newMockDB(t)
	err := Migrate(context.Background(), db, "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}
