package domain

import (
	"errors"
	"strings"
	"time"
)

// Priority represents how urgent a task is.
type Priority string

// Possible priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Common validation errors for Task
var (
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a string to a Priority, rejecting unknown values.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Task is a work item owned by exactly one user.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates an unsaved, not completed Task for the given owner.
// An empty priority defaults to PriorityMedium.
func NewTask(
	userID int64,
	title string,
	description *string,
	priority Priority,
	dueDate *time.Time,
	now time.Time,
) (*Task, error) {
	if priority == "" {
		priority = PriorityMedium
	}

	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.UserID <= 0 {
		return ErrEmptyTaskUserID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}
