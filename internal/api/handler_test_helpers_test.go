package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// asOwner injects an authenticated owner ID the way the auth middleware does.
func asOwner(ownerID int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ownerID > 0 {
				r = r.WithContext(shared.WithOwnerID(r.Context(), ownerID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newTestRouter(users *UserHandler, tasks *TaskHandler, ownerID int64) http.Handler {
	r := chi.NewRouter()
	if users != nil {
		r.Post("/api/users", users.Register)
		r.With(asOwner(ownerID)).Get("/api/users/me", users.GetMe)
		r.With(asOwner(ownerID)).Patch("/api/users/me", users.UpdateMe)
	}
	if tasks != nil {
		r.Route("/api/tasks", func(r chi.Router) {
			r.Use(asOwner(ownerID))
			r.Get("/", tasks.ListTasks)
			r.Post("/", tasks.CreateTask)
			r.Get("/{id}", tasks.GetTask)
			r.Patch("/{id}", tasks.UpdateTask)
			r.Delete("/{id}", tasks.DeleteTask)
		})
	}
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}
