package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO tasks (user_id, title, description, completed, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("task owner does not exist", slog.Int64("user_id", task.UserID))
		} else {
			log.Error("failed to create task",
				slog.String("error", err.Error()),
				slog.Int64("user_id", task.UserID))
		}
		return MapError(err, "task", "create")
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.Int64("task_id", taskID),
				slog.Int64("user_id", ownerID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, MapError(err, "task", "get")
	}

	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(
	ctx context.Context,
	ownerID int64,
	filter store.TaskFilter,
	page store.Page,
) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}

	query, args := buildTaskListQuery(ownerID, filter, page)

	log.Debug("listing tasks",
		slog.Int64("user_id", ownerID),
		slog.Int("limit", page.Limit),
		slog.Int("offset", page.Offset))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", ownerID))
		return nil, MapError(err, "task", "list")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err, "task", "list")
		}
		tasks = append(tasks, *task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err, "task", "list")
	}

	log.Debug("listed tasks",
		slog.Int64("user_id", ownerID),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		string(task.Priority),
		task.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err, "task", "update")
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return err
	}

	log.Info("task updated successfully", slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return MapError(err, "task", "delete")
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		log.Debug("task not found for delete", slog.Int64("task_id", taskID))
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", taskID))
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		priority    string
		dueDate     sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&description,
		&task.Completed,
		&priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	task.Priority = domain.Priority(priority)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}
