package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name     string
		taskerDB string
		database string
		want     string
	}{
		{"neither set", "", "", ""},
		{"database url only", "", "postgres://db/app", "postgres://db/app"},
		{"tasker url only", "postgres://db/test", "", "postgres://db/test"},
		{"tasker url wins", "postgres://db/test", "postgres://db/app", "postgres://db/test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TASKER_TEST_DB_URL", tt.taskerDB)
			t.Setenv("DATABASE_URL", tt.database)

			assert.Equal(t, tt.want, URL())
		})
	}
}

func TestOpen_SkipsWithoutURL(t *testing.T) {
	t.Setenv("TASKER_TEST_DB_URL", "")
	t.Setenv("DATABASE_URL", "")

	ran := false
	t.Run("skipped", func(t *testing.T) {
		Open(t)
		ran = true
	})

	assert.False(t, ran, "Open should skip before returning")
}
