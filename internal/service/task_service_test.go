package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/mocks"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleTask() *domain.Task {
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	desc := "milk, eggs"
	due := created.Add(48 * time.Hour)
	return &domain.Task{
		ID:          11,
		UserID:      3,
		Title:       "groceries",
		Description: &desc,
		Priority:    domain.PriorityMedium,
		DueDate:     &due,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	t.Run("defaults_priority_and_owner", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
			return task.UserID == 3 &&
				task.Priority == domain.PriorityMedium &&
				!task.Completed &&
				task.CreatedAt.Equal(task.UpdatedAt)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Task).ID = 99
		}).Return(nil)

		svc := service.NewTaskService(tasks, testLogger())
		task, err := svc.CreateTask(context.Background(), 3, service.CreateTaskInput{Title: "write report"})
		require.NoError(t, err)

		assert.Equal(t, int64(99), task.ID)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		tasks.AssertExpectations(t)
	})

	t.Run("due_date_stored_in_utc", func(t *testing.T) {
		loc := time.FixedZone("UTC+2", 2*60*60)
		due := time.Date(2024, 7, 1, 12, 0, 0, 0, loc)

		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := service.NewTaskService(tasks, testLogger())
		task, err := svc.CreateTask(context.Background(), 3, service.CreateTaskInput{Title: "t", DueDate: &due})
		require.NoError(t, err)

		require.NotNil(t, task.DueDate)
		assert.Equal(t, time.UTC, task.DueDate.Location())
		assert.True(t, task.DueDate.Equal(due))
	})

	t.Run("invalid_input_not_stored", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		svc := service.NewTaskService(tasks, testLogger())

		_, err := svc.CreateTask(context.Background(), 3, service.CreateTaskInput{Title: "   "})
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)

		_, err = svc.CreateTask(context.Background(), 3, service.CreateTaskInput{Title: "t", Priority: "urgent"})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)

		tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store_error_wrapped", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("Create", mock.Anything, mock.Anything).Return(store.ErrInvalidEntity)

		svc := service.NewTaskService(tasks, testLogger())
		_, err := svc.CreateTask(context.Background(), 3, service.CreateTaskInput{Title: "t"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestTaskService_GetTask(t *testing.T) {
	tasks := new(mocks.TestifyMockTaskStore)
	tasks.On("GetByID", mock.Anything, int64(3), int64(11)).Return(sampleTask(), nil)
	// Another owner asking for the same task sees it as missing.
	tasks.On("GetByID", mock.Anything, int64(4), int64(11)).Return(nil, store.ErrTaskNotFound)

	svc := service.NewTaskService(tasks, testLogger())

	task, err := svc.GetTask(context.Background(), 3, 11)
	require.NoError(t, err)
	assert.Equal(t, "groceries", task.Title)

	_, err = svc.GetTask(context.Background(), 4, 11)
	assert.ErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_UpdateTask(t *testing.T) {
	done := true
	high := domain.PriorityHigh
	newTitle := "groceries and bread"
	newDue := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	invalid := domain.Priority("urgent")
	blank := " "

	tests := []struct {
		name    string
		patch   service.TaskPatch
		wantErr error
		check   func(t *testing.T, task *domain.Task)
	}{
		{
			name:  "title_only",
			patch: service.TaskPatch{Title: &newTitle},
			check: func(t *testing.T, task *domain.Task) {
				assert.Equal(t, newTitle, task.Title)
				require.NotNil(t, task.Description)
				assert.Equal(t, "milk, eggs", *task.Description)
				assert.NotNil(t, task.DueDate)
				assert.Equal(t, domain.PriorityMedium, task.Priority)
			},
		},
		{
			name:  "complete_and_raise_priority",
			patch: service.TaskPatch{Completed: &done, Priority: &high},
			check: func(t *testing.T, task *domain.Task) {
				assert.True(t, task.Completed)
				assert.Equal(t, domain.PriorityHigh, task.Priority)
			},
		},
		{
			name:  "clear_optional_fields",
			patch: service.TaskPatch{ClearDescription: true, ClearDueDate: true},
			check: func(t *testing.T, task *domain.Task) {
				assert.Nil(t, task.Description)
				assert.Nil(t, task.DueDate)
			},
		},
		{
			name:  "clear_wins_over_value",
			patch: service.TaskPatch{DueDate: &newDue, ClearDueDate: true},
			check: func(t *testing.T, task *domain.Task) {
				assert.Nil(t, task.DueDate)
			},
		},
		{
			name:  "new_due_date",
			patch: service.TaskPatch{DueDate: &newDue},
			check: func(t *testing.T, task *domain.Task) {
				require.NotNil(t, task.DueDate)
				assert.True(t, task.DueDate.Equal(newDue))
			},
		},
		{
			name:    "invalid_priority",
			patch:   service.TaskPatch{Priority: &invalid},
			wantErr: domain.ErrInvalidPriority,
		},
		{
			name:    "blank_title",
			patch:   service.TaskPatch{Title: &blank},
			wantErr: domain.ErrEmptyTaskTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := sampleTask()
			tasks := new(mocks.TestifyMockTaskStore)
			tasks.On("GetByID", mock.Anything, int64(3), int64(11)).Return(original, nil)
			tasks.On("Update", mock.Anything, mock.Anything).Return(nil)

			svc := service.NewTaskService(tasks, testLogger())
			task, err := svc.UpdateTask(context.Background(), 3, 11, tt.patch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, task.UpdatedAt.After(task.CreatedAt))
			assert.Equal(t, int64(3), task.UserID)
			tt.check(t, task)
			tasks.AssertCalled(t, "Update", mock.Anything, task)
		})
	}

	t.Run("other_owner", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("GetByID", mock.Anything, int64(4), int64(11)).Return(nil, store.ErrTaskNotFound)

		svc := service.NewTaskService(tasks, testLogger())
		_, err := svc.UpdateTask(context.Background(), 4, 11, service.TaskPatch{Title: &newTitle})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})

	t.Run("deleted_between_read_and_write", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("GetByID", mock.Anything, int64(3), int64(11)).Return(sampleTask(), nil)
		tasks.On("Update", mock.Anything, mock.Anything).Return(store.ErrTaskNotFound)

		svc := service.NewTaskService(tasks, testLogger())
		_, err := svc.UpdateTask(context.Background(), 3, 11, service.TaskPatch{Title: &newTitle})
		assert.ErrorIs(t, err, service.ErrTaskNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	tasks := new(mocks.TestifyMockTaskStore)
	tasks.On("Delete", mock.Anything, int64(3), int64(11)).Return(nil)
	tasks.On("Delete", mock.Anything, int64(4), int64(11)).Return(store.ErrTaskNotFound)
	tasks.On("Delete", mock.Anything, int64(3), int64(12)).Return(errors.New("connection reset"))

	svc := service.NewTaskService(tasks, testLogger())

	assert.NoError(t, svc.DeleteTask(context.Background(), 3, 11))
	assert.ErrorIs(t, svc.DeleteTask(context.Background(), 4, 11), service.ErrTaskNotFound)

	err := svc.DeleteTask(context.Background(), 3, 12)
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	t.Run("passes_owner_filter_and_page", func(t *testing.T) {
		done := false
		filter := store.TaskFilter{Completed: &done}
		page := store.Page{Limit: 2, Offset: 1}
		want := []domain.Task{*sampleTask()}

		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("List", mock.Anything, int64(3), filter, page).Return(want, nil)

		svc := service.NewTaskService(tasks, testLogger())
		got, err := svc.ListTasks(context.Background(), 3, filter, page)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("empty_result", func(t *testing.T) {
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("List", mock.Anything, int64(3), store.TaskFilter{}, store.Page{}).Return([]domain.Task{}, nil)

		svc := service.NewTaskService(tasks, testLogger())
		got, err := svc.ListTasks(context.Background(), 3, store.TaskFilter{}, store.Page{})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("invalid_page_is_validation_error", func(t *testing.T) {
		page := store.Page{Limit: -1}
		tasks := new(mocks.TestifyMockTaskStore)
		tasks.On("List", mock.Anything, int64(3), store.TaskFilter{}, page).
			Return(nil, fmt.Errorf("%w: limit must be positive, got -1", store.ErrInvalidPage))

		svc := service.NewTaskService(tasks, testLogger())
		_, err := svc.ListTasks(context.Background(), 3, store.TaskFilter{}, page)

		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "page", validationErr.Field)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
