package handlers

import (
	"net/http"

	"github.com/isdelr/todolist/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles registration and login.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// CredentialsPayload is the body of both register and login requests.
type CredentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registerResponse echoes the submitted credentials with the new id.
type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		authRoutes.respond(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		authRoutes.respond(w, err)
		return
	}

	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Registered user")
	writeJSON(w, http.StatusOK, registerResponse{ID: user.ID, Username: user.Username, Password: payload.Password})
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := decodeBody(r, &payload); err != nil {
		authRoutes.respond(w, err)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", payload.Username).Msg("Failed authentication attempt")
		authRoutes.respond(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
