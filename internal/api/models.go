package api

import (
	"time"

	"github.com/phrazzld/tasker-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"          validate:"required,email"`
	Password string `json:"password"       validate:"required,min=6"`
	Name     string `json:"name"           validate:"required,min=1"`
	Theme    string `json:"ui_color_theme" validate:"omitempty,max=32"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	User      domain.PublicUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// UpdateUserRequest defines the payload for a profile update.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email           *string `json:"email"            validate:"omitempty,email"`
	Name            *string `json:"name"             validate:"omitempty,min=1"`
	Theme           *string `json:"ui_color_theme"   validate:"omitempty,min=1,max=32"`
	CurrentPassword *string `json:"current_password" validate:"required_with=NewPassword"`
	NewPassword     *string `json:"new_password"     validate:"omitempty,min=6"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are left unchanged; the clear flags reset optional fields.
type UpdateTaskRequest struct {
	Title            *string    `json:"title"             validate:"omitempty,min=1"`
	Description      *string    `json:"description"`
	ClearDescription bool       `json:"clear_description"`
	Completed        *bool      `json:"completed"`
	Priority         *string    `json:"priority"          validate:"omitempty,oneof=low medium high"`
	DueDate          *time.Time `json:"due_date"`
	ClearDueDate     bool       `json:"clear_due_date"`
}

// ListTasksQuery holds the parsed query string of GET /api/tasks.
// Limit and Offset are nil when absent; a present limit must be positive.
type ListTasksQuery struct {
	Completed *bool      `validate:"-"`
	Priority  string     `validate:"omitempty,oneof=low medium high"`
	DueBefore *time.Time `validate:"-"`
	Limit     *int       `validate:"omitempty,gt=0,lte=100"`
	Offset    *int       `validate:"omitempty,gte=0"`
}

// TaskListResponse wraps a page of tasks.
type TaskListResponse struct {
	Tasks  []domain.Task `json:"tasks"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
