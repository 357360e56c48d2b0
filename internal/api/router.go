package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/account-api/internal/api/middleware"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/metrics"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
)

// Version is reported at the service root.
const Version = "1.0.0"

// RouterDeps are the collaborators the HTTP API is built from.
type RouterDeps struct {
	Users      service.UserService
	Tokens     auth.JWTService
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Production bool
}

// NewRouter wires handlers and middleware into a chi router.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	translator := NewErrorTranslator(deps.Production, log)
	userHandler := NewUserHandler(deps.Users, translator, log)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens, translator.Respond)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(log))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.Recoverer(translator.Respond))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, RootResponse{
			Message: "Account API",
			Version: Version,
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", userHandler.handle(userHandler.Register))
		r.Post("/login", userHandler.handle(userHandler.Login))
		r.Get("/", userHandler.handle(userHandler.ListUsers))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me/profile", userHandler.handle(userHandler.Profile))
		})

		r.Get("/{id}", userHandler.handle(userHandler.GetUser))
		r.Put("/{id}", userHandler.handle(userHandler.UpdateUser))
		r.Delete("/{id}", userHandler.handle(userHandler.DeleteUser))
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error("failed to write health check response", "error", err)
		}
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return r
}
