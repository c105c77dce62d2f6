package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// The API layer maps each of them to an HTTP status code.
var (
	// ErrDuplicateEmail indicates the email is already registered to another user.
	// Comparison is exact; addresses differing only in case are distinct.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrUserNotFound indicates the referenced user does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrUserNotFound = errors.New("user not found")

	// ErrTaskNotFound indicates the task does not exist for the requesting user.
	// A task owned by someone else is reported the same way.
	// API layer should map this to HTTP 404 Not Found.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidCredentials indicates a supplied password did not match.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
