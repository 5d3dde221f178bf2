package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Udhay-Adithya/form-builder-backend/internal/api/handlers"
	"github.com/Udhay-Adithya/form-builder-backend/internal/auth"
	"github.com/Udhay-Adithya/form-builder-backend/internal/config"
	"github.com/Udhay-Adithya/form-builder-backend/internal/logger"
	"github.com/Udhay-Adithya/form-builder-backend/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	formService services.FormServiceProvider,
	responseService services.ResponseServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	// CORS configuration; origins come from config so deployments can
	// point their own frontends at the API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler()
	formHandler := handlers.NewFormHandler(formService)
	responseHandler := handlers.NewResponseHandler(formService, responseService)

	// The access guard resolves the bearer token into a user on every
	// protected request.
	requireUser := auth.RequireUser(tokens, userService)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"message": "Welcome to %s"}`, cfg.ProjectName)
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/token", authHandler.Token)
		})

		r.With(requireUser).Get("/users/me", userHandler.GetMe)

		r.Route("/forms", func(r chi.Router) {
			r.With(requireUser).Post("/", formHandler.Create)
			r.With(requireUser).Get("/", formHandler.List)

			// Reading a form definition is public; submitters need it to
			// render the form.
			r.Get("/{id}", formHandler.Get)

			r.With(requireUser).Put("/{id}", formHandler.Update)
			r.With(requireUser).Delete("/{id}", formHandler.Delete)

			// Submissions are public; reading them back is owner-only.
			r.Post("/{id}/responses/", responseHandler.Create)
			r.With(requireUser).Get("/{id}/responses/", responseHandler.List)
		})
	})

	return r
}
