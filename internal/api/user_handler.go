package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service"
)

// UserHandler handles registration and profile requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for UserHandler")
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// Register handles POST /api/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.userService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Theme:    req.Theme,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("user registered", slog.Int64("user_id", result.User.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// GetMe handles GET /api/users/me.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireOwnerID(w, r, log)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PATCH /api/users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireOwnerID(w, r, log)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), ownerID, service.UserPatch{
		Email:           req.Email,
		Name:            req.Name,
		Theme:           req.Theme,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("user updated", slog.Int64("user_id", ownerID))
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
