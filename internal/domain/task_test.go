package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	task, err := NewTask(1, "Write report", nil, "", nil, now)
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, task.Priority, "priority defaults to medium")
	assert.False(t, task.Completed)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, now, task.CreatedAt)

	_, err = NewTask(0, "Write report", nil, PriorityHigh, nil, now)
	assert.ErrorIs(t, err, ErrEmptyTaskUserID)

	_, err = NewTask(1, "   ", nil, PriorityHigh, nil, now)
	assert.ErrorIs(t, err, ErrEmptyTaskTitle)

	_, err = NewTask(1, "Write report", nil, Priority("urgent"), nil, now)
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"low", "medium", "high"} {
		p, err := ParsePriority(s)
		require.NoError(t, err)
		assert.Equal(t, Priority(s), p)
	}

	_, err := ParsePriority("HIGH")
	assert.ErrorIs(t, err, ErrInvalidPriority)

	_, err = ParsePriority("")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}
