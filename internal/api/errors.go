package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/service/auth"
	"github.com/phrazzld/tasker-api/internal/store"
)

// isValidationError reports whether err describes bad client input.
func isValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError
	return errors.As(err, &validationErrs) ||
		errors.As(err, &domainErr) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidID) ||
		errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyTaskTitle) ||
		errors.Is(err, domain.ErrInvalidPriority) ||
		errors.Is(err, store.ErrInvalidPage) ||
		errors.Is(err, store.ErrInvalidEntity)
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking their types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateEmail),
		store.IsDuplicateError(err):
		return http.StatusConflict

	case isValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	var domainErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, service.ErrTaskNotFound), errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &domainErr):
		return fmt.Sprintf("Invalid %s: %s", domainErr.Field, domainErr.Message)
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case isValidationError(err):
		// Domain sentinels carry no sensitive detail.
		return "Validation error: " + err.Error()

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator output into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	first := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(first.Field()), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gt", "gte", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. An empty message falls
// back to GetSafeErrorMessage.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if errors.Is(err, service.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
