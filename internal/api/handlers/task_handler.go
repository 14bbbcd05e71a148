package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/todolist/internal/auth"
	"github.com/isdelr/todolist/internal/models"
	"github.com/isdelr/todolist/internal/services"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles HTTP requests for the caller's tasks. It must be
// mounted behind auth.Issuer.Middleware.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskPayload is the body for create and update requests.
type TaskPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// GetAll lists the caller's tasks.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to retrieve tasks")
		taskRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]models.Task{"tasks": tasks})
}

// Create adds a task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var payload TaskPayload
	if err := decodeBody(r, &payload); err != nil {
		taskRoutes.respond(w, err)
		return
	}

	task, err := h.service.Create(r.Context(), userID, payload.Title, payload.Body)
	if err != nil {
		logFailure(err, userID, 0, "Failed to create task")
		taskRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Get returns one of the caller's tasks.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := callerAndTask(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), userID, taskID)
	if err != nil {
		logFailure(err, userID, taskID, "Failed to get task")
		taskRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Update replaces the title and body of one of the caller's tasks.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := callerAndTask(w, r)
	if !ok {
		return
	}

	var payload TaskPayload
	if err := decodeBody(r, &payload); err != nil {
		taskRoutes.respond(w, err)
		return
	}

	task, err := h.service.Update(r.Context(), userID, taskID, payload.Title, payload.Body)
	if err != nil {
		logFailure(err, userID, taskID, "Failed to update task")
		taskRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// Delete removes one of the caller's tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := callerAndTask(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, taskID); err != nil {
		logFailure(err, userID, taskID, "Failed to delete task")
		taskRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func callerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		log.Error().Str("path", r.URL.Path).Msg("Task route reached without an authenticated user")
		WriteError(w, http.StatusUnauthorized, "Missing Authorization Header")
	}
	return userID, ok
}

func callerAndTask(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	userID, ok := callerID(w, r)
	if !ok {
		return 0, 0, false
	}
	taskID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		// The route only admits digits, so this is an id too large to exist.
		WriteError(w, http.StatusUnauthorized, "This task doesn't exist")
		return 0, 0, false
	}
	return userID, taskID, true
}

// logFailure logs client errors at warn and everything else at error.
func logFailure(err error, userID, taskID int64, msg string) {
	ev := log.Error()
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		ev = log.Warn()
	}
	ev = ev.Err(err).Int64("user_id", userID)
	if taskID != 0 {
		ev = ev.Int64("task_id", taskID)
	}
	ev.Msg(msg)
}
