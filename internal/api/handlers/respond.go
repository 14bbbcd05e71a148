package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/todolist/internal/services"
	"github.com/rs/zerolog/log"
)

// errorBody is the envelope for every failed request.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError writes the error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: true, Message: message})
}

// statusMap picks a status code per service error kind.
type statusMap struct {
	validation, conflict, auth, notFound int
}

var (
	// Everything under /auth fails with 400, bad credentials included.
	authRoutes = statusMap{
		validation: http.StatusBadRequest,
		conflict:   http.StatusBadRequest,
		auth:       http.StatusBadRequest,
		notFound:   http.StatusBadRequest,
	}
	// Task routes report a missing task as 401, matching the published API.
	taskRoutes = statusMap{
		validation: http.StatusBadRequest,
		conflict:   http.StatusBadRequest,
		auth:       http.StatusUnauthorized,
		notFound:   http.StatusUnauthorized,
	}
)

func (m statusMap) respond(w http.ResponseWriter, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = m.validation
	case errors.Is(err, services.ErrConflict):
		status = m.conflict
	case errors.Is(err, services.ErrAuth):
		status = m.auth
	case errors.Is(err, services.ErrNotFound):
		status = m.notFound
	}
	WriteError(w, status, svcErr.Message)
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &services.Error{Kind: services.ErrValidation, Message: "Invalid request body"}
	}
	return nil
}
