package mocks

import (
	"context"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn func(ctx context.Context, ownerID int64, input service.CreateTaskInput) (*domain.Task, error)
	GetTaskFn    func(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, ownerID, taskID int64, patch service.TaskPatch) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, ownerID, taskID int64) error
	ListTasksFn  func(ctx context.Context, ownerID int64, filter store.TaskFilter, page store.Page) ([]domain.Task, error)

	// Default return values
	Task         *domain.Task
	Tasks        []domain.Task
	DefaultError error
}

// CreateTask implements the TaskService.CreateTask method
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID int64,
	input service.CreateTaskInput,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, input)
	}
	return m.Task, m.DefaultError
}

// GetTask implements the TaskService.GetTask method
func (m *MockTaskService) GetTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, ownerID, taskID)
	}
	return m.Task, m.DefaultError
}

// UpdateTask implements the TaskService.UpdateTask method
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID int64,
	patch service.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, ownerID, taskID, patch)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements the TaskService.DeleteTask method
func (m *MockTaskService) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, ownerID, taskID)
	}
	return m.DefaultError
}

// ListTasks implements the TaskService.ListTasks method
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	ownerID int64,
	filter store.TaskFilter,
	page store.Page,
) ([]domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, filter, page)
	}
	return m.Tasks, m.DefaultError
}
