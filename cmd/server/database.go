package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/memory"
	"github.com/phrazzld/account-api/internal/platform/mongostore"
	"github.com/phrazzld/account-api/internal/platform/postgres"
	"github.com/phrazzld/account-api/internal/store"
)

// userStore is a store.UserStore that owns a connection to release on
// shutdown.
type userStore interface {
	store.UserStore
	Close(ctx context.Context) error
}

// openUserStore connects the backend selected by cfg.Database.Driver. The
// postgres schema is migrated up before the store is returned.
func openUserStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (userStore, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		s, err := mongostore.Connect(ctx, mongostore.Options{
			URI:        cfg.Database.URL,
			Database:   cfg.Database.Name,
			Timeout:    cfg.Database.Timeout(),
			BcryptCost: cfg.Auth.BcryptCost,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		return s, nil

	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		return postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger), nil

	case config.DriverMemory:
		logger.Warn("using in-memory user store; accounts are lost on restart")
		return memory.NewUserStore(cfg.Auth.BcryptCost, logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// setupAppDatabase establishes a connection to the postgres database.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.Timeout())
	if err != nil {
		return nil, err
	}

	logger.Info("Database connection established")
	return db, nil
}

// runMigrations executes a goose command against the configured postgres
// database and closes the connection.
func runMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	if err := postgres.Migrate(ctx, db, command, logger); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	return nil
}
