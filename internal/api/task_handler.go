package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/service"
)

// TaskHandler handles task requests. Every route requires authentication and
// acts only on the caller's own tasks.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireOwnerID(w, r, log)
	if !ok {
		return
	}

	query, err := parseListTasksQuery(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	filter, page := query.toStoreQuery()
	tasks, err := h.taskService.ListTasks(r.Context(), ownerID, filter, page)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	// Echo the effective page so clients see applied defaults.
	effective, err := page.Normalize()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("listed tasks",
		slog.Int64("user_id", ownerID),
		slog.Int("count", len(tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskListResponse{
		Tasks:  tasks,
		Limit:  effective.Limit,
		Offset: effective.Offset,
	})
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := requireOwnerID(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), ownerID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created",
		slog.Int64("user_id", ownerID),
		slog.Int64("task_id", task.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, taskID, ok := handleOwnerIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), ownerID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PATCH /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, taskID, ok := handleOwnerIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patch := service.TaskPatch{
		Title:            req.Title,
		Description:      req.Description,
		ClearDescription: req.ClearDescription,
		Completed:        req.Completed,
		DueDate:          req.DueDate,
		ClearDueDate:     req.ClearDueDate,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}

	task, err := h.taskService.UpdateTask(r.Context(), ownerID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task updated",
		slog.Int64("user_id", ownerID),
		slog.Int64("task_id", taskID))
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, taskID, ok := handleOwnerIDAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), ownerID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
