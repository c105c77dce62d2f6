//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/postgres"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/phrazzld/tasker-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA", "Tester", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func TestUserStore_Integration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	t.Run("round_trip_exact_email", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			s := postgres.NewPostgresUserStore(tx, nil)
			user := createUser(t, tx, "Mixed.Case@example.com")

			got, err := s.GetByEmail(ctx, "Mixed.Case@example.com")
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)

			_, err = s.GetByEmail(ctx, "mixed.case@example.com")
			assert.ErrorIs(t, err, store.ErrUserNotFound)
		})
	})

	t.Run("duplicate_email", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			createUser(t, tx, "dup@example.com")

			again, err := domain.NewUser("dup@example.com", "verifier", "Other", "", time.Now())
			require.NoError(t, err)
			err = postgres.NewPostgresUserStore(tx, nil).Create(ctx, again)
			assert.ErrorIs(t, err, store.ErrEmailExists)
		})
	})
}

func TestTaskStore_ListIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		owner := createUser(t, tx, "owner@example.com")
		other := createUser(t, tx, "other@example.com")
		s := postgres.NewPostgresTaskStore(tx, nil)

		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		due := base.Add(48 * time.Hour)

		insert := func(userID int64, title string, priority domain.Priority, dueDate *time.Time, created time.Time) *domain.Task {
			task, err := domain.NewTask(userID, title, nil, priority, dueDate, created)
			require.NoError(t, err)
			require.NoError(t, s.Create(ctx, task))
			return task
		}

		dueLater := due.Add(time.Hour)
		later := insert(owner.ID, "due later", domain.PriorityMedium, &dueLater, base.Add(-time.Hour))
		oldest, err := domain.NewTask(owner.ID, "oldest", nil, domain.PriorityLow, nil, base)
		require.NoError(t, err)
		oldest.Completed = true
		require.NoError(t, s.Create(ctx, oldest))
		middle := insert(owner.ID, "middle", domain.PriorityHigh, &due, base.Add(time.Hour))
		// Same timestamp as middle; the higher id sorts first.
		twin := insert(owner.ID, "twin", domain.PriorityHigh, nil, base.Add(time.Hour))
		newest := insert(owner.ID, "newest", domain.PriorityMedium, nil, base.Add(2*time.Hour))
		insert(other.ID, "not mine", domain.PriorityHigh, &due, base.Add(3*time.Hour))

		ids := func(tasks []domain.Task) []int64 {
			out := make([]int64, len(tasks))
			for i, task := range tasks {
				out[i] = task.ID
			}
			return out
		}

		all, err := s.List(ctx, owner.ID, store.TaskFilter{}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{newest.ID, twin.ID, middle.ID, oldest.ID, later.ID}, ids(all))

		completed := true
		finished, err := s.List(ctx, owner.ID, store.TaskFilter{Completed: &completed}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{oldest.ID}, ids(finished))

		notCompleted := false
		open, err := s.List(ctx, owner.ID, store.TaskFilter{Completed: &notCompleted}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{newest.ID, twin.ID, middle.ID, later.ID}, ids(open))

		high := domain.PriorityHigh
		filtered, err := s.List(ctx, owner.ID, store.TaskFilter{Priority: &high}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{twin.ID, middle.ID}, ids(filtered))

		// The bound is inclusive; a task due after it and tasks without a
		// due date are excluded.
		dueBefore := due
		withDue, err := s.List(ctx, owner.ID, store.TaskFilter{DueBefore: &dueBefore}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{middle.ID}, ids(withDue))

		dueBefore = dueLater
		withDue, err = s.List(ctx, owner.ID, store.TaskFilter{DueBefore: &dueBefore}, store.Page{})
		require.NoError(t, err)
		assert.Equal(t, []int64{middle.ID, later.ID}, ids(withDue))

		paged, err := s.List(ctx, owner.ID, store.TaskFilter{}, store.Page{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{twin.ID, middle.ID}, ids(paged))

		first, err := s.List(ctx, owner.ID, store.TaskFilter{}, store.Page{Limit: 2})
		require.NoError(t, err)
		second, err := s.List(ctx, owner.ID, store.TaskFilter{}, store.Page{Limit: 3, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, ids(all), append(ids(first), ids(second)...))

		_, err = s.GetByID(ctx, other.ID, oldest.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, s.Delete(ctx, other.ID, oldest.ID), store.ErrTaskNotFound)
	})
}
