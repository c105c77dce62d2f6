package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// Pagination limits for task listing.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// TaskFilter holds the optional predicates of a task listing.
// A nil field means the predicate is not applied.
type TaskFilter struct {
	Completed *bool
	Priority  *domain.Priority
	// DueBefore matches tasks that have a due date at or before the instant.
	// Tasks without a due date never match.
	DueBefore *time.Time
}

// Page selects a window of an ordered listing.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies defaults and bounds to the page.
// A zero limit becomes DefaultPageLimit and a limit above MaxPageLimit is
// clamped. Negative values return ErrInvalidPage.
func (p Page) Normalize() (Page, error) {
	if p.Limit < 0 {
		return Page{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPage, p.Limit)
	}
	if p.Offset < 0 {
		return Page{}, fmt.Errorf("%w: offset must be non-negative, got %d", ErrInvalidPage, p.Offset)
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p, nil
}

// TaskStore defines the interface for task data persistence.
// Every method is scoped by the owning user's ID; a task belonging to a
// different user behaves exactly like a missing one.
type TaskStore interface {
	// Create saves a new task and sets task.ID.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task owned by ownerID.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	GetByID(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// List returns the owner's tasks matching filter, newest first
	// (created_at DESC, id DESC), sliced by page after ordering.
	List(ctx context.Context, ownerID int64, filter TaskFilter, page Page) ([]domain.Task, error)

	// Update writes the mutable fields of a task owned by task.UserID.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by ownerID.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, ownerID, taskID int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
