package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/todolist/internal/api/handlers"
	"github.com/isdelr/todolist/internal/auth"
	"github.com/isdelr/todolist/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(allowedOrigins []string, issuer *auth.Issuer, userService services.UserServiceProvider, taskService services.TaskServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "The requested URL was not found on the server.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested URL.")
	})

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r.Get("/health", handlers.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(issuer.Middleware())

		r.Get("/", taskHandler.GetAll)
		r.Post("/", taskHandler.Create)
		r.Route("/{id:[0-9]+}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Delete("/", taskHandler.Delete)
		})
	})

	return r
}
