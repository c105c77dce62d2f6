package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// CreateTaskInput holds the fields of a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    domain.Priority // optional; defaults to medium
	DueDate     *time.Time
}

// TaskPatch holds a partial task update. Nil fields are left unchanged.
// ClearDescription and ClearDueDate reset the optional fields to null.
type TaskPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
	Priority         *domain.Priority
	DueDate          *time.Time
	ClearDueDate     bool
}

// TaskService manages the tasks of one owner at a time. Every operation is
// scoped by ownerID; another user's task is reported as ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, input CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID int64, patch TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int64) error

	// ListTasks returns the owner's tasks matching filter, newest first.
	ListTasks(ctx context.Context, ownerID int64, filter store.TaskFilter, page store.Page) ([]domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
		timeFunc:  time.Now,
	}
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(ctx context.Context, ownerID int64, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, input.Title, input.Description, input.Priority, utcPtr(input.DueDate), s.timeFunc())
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create task",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.mapTaskError(ctx, err, "get", taskID)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID int64,
	patch TaskPatch,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, s.mapTaskError(ctx, err, "get", taskID)
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.ClearDescription {
		task.Description = nil
	} else if patch.Description != nil {
		task.Description = patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = utcPtr(patch.DueDate)
	}
	task.UpdatedAt = s.timeFunc().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		return nil, s.mapTaskError(ctx, err, "update", taskID)
	}

	return task, nil
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		return s.mapTaskError(ctx, err, "delete", taskID)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		"user_id", ownerID,
		"task_id", taskID)
	return nil
}

// ListTasks implements TaskService.ListTasks.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID int64,
	filter store.TaskFilter,
	page store.Page,
) ([]domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, ownerID, filter, page)
	if err != nil {
		if errors.Is(err, store.ErrInvalidPage) {
			return nil, domain.NewValidationError("page", err.Error(), domain.ErrValidation)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			"error", err,
			"user_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskServiceImpl) mapTaskError(ctx context.Context, err error, op string, taskID int64) error {
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
		"error", err,
		"operation", op,
		"task_id", taskID)
	return fmt.Errorf("failed to %s task: %w", op, err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
