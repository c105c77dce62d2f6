package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore interface for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

// Ensure TestifyMockTaskStore implements store.TaskStore
var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TestifyMockTaskStore) GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, taskID)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.TaskStore.List
func (m *TestifyMockTaskStore) List(
	ctx context.Context,
	ownerID int64,
	filter store.TaskFilter,
	page store.Page,
) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, filter, page)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TestifyMockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TestifyMockTaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

// WithTx returns the mock itself.
func (m *TestifyMockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
