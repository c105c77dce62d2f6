package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireOwnerID returns the authenticated user's ID, writing a 401 response
// when the auth middleware did not set one.
func requireOwnerID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	ownerID, ok := shared.OwnerIDFromContext(r.Context())
	if !ok {
		log.Warn("owner ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return 0, false
	}
	return ownerID, true
}

// handleOwnerIDAndPathID extracts both the owner ID and a path ID, writing
// an error response if either fails.
func handleOwnerIDAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (int64, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	ownerID, ok := requireOwnerID(w, r, log)
	if !ok {
		return 0, 0, false
	}

	pathID, err := getPathID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return 0, 0, false
	}

	return ownerID, pathID, true
}

// parseListTasksQuery reads the filter and pagination parameters of a task
// listing. Absent parameters stay unset.
func parseListTasksQuery(values url.Values) (ListTasksQuery, error) {
	var q ListTasksQuery

	if raw := values.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return q, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
		q.Completed = &completed
	}

	q.Priority = values.Get("priority")

	if raw := values.Get("due_before"); raw != "" {
		dueBefore, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return q, domain.NewValidationError("due_before", "must be an RFC3339 timestamp", domain.ErrValidation)
		}
		q.DueBefore = &dueBefore
	}

	var err error
	if q.Limit, err = parseIntParam(values, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = parseIntParam(values, "offset"); err != nil {
		return q, err
	}

	return q, shared.ValidateRequest(q)
}

// parseIntParam returns nil when name is absent. A present but empty value
// is rejected like any other non-integer.
func parseIntParam(values url.Values, name string) (*int, error) {
	if !values.Has(name) {
		return nil, nil
	}
	n, err := strconv.Atoi(values.Get(name))
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	return &n, nil
}

// toStoreQuery converts a validated listing query into the store's filter
// and page.
func (q ListTasksQuery) toStoreQuery() (store.TaskFilter, store.Page) {
	filter := store.TaskFilter{
		Completed: q.Completed,
		DueBefore: q.DueBefore,
	}
	if q.Priority != "" {
		p := domain.Priority(q.Priority)
		filter.Priority = &p
	}
	var page store.Page
	if q.Limit != nil {
		page.Limit = *q.Limit
	}
	if q.Offset != nil {
		page.Offset = *q.Offset
	}
	return filter, page
}
