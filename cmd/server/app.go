package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/account-api/internal/api"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/metrics"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	userStore   userStore
	jwtService  auth.JWTService
	userService service.UserService
	metrics     *metrics.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Duration("token_lifetime", auth.TokenLifetime))

	app.userStore, err = openUserStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.userService = service.NewUserService(
		app.userStore,
		app.jwtService,
		auth.NewBcryptVerifier(),
		logger,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(registry)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Users:      app.userService,
		Tokens:     app.jwtService,
		Metrics:    app.metrics,
		Logger:     app.logger,
		Production: app.config.IsProduction(),
	})
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup(ctx context.Context) {
	if app.userStore != nil {
		if err := app.userStore.Close(ctx); err != nil {
			app.logger.Error("Error closing user store", "error", err)
		}
	}
}
