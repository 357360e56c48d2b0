package main

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: config.EnvTest,
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{
			Driver:         config.DriverMemory,
			TimeoutSeconds: 5,
		},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret-that-is-long-enough-for-testing",
			BcryptCost: bcrypt.MinCost,
		},
	}
}

func TestNewApplicationWithMemoryStore(t *testing.T) {
	t.Parallel()
	_, log := logger.NewTestLogger(t)

	app, err := newApplication(context.Background(), testConfig(), log)
	require.NoError(t, err)

	assert.NotNil(t, app.userStore)
	assert.NotNil(t, app.userService)
	assert.NotNil(t, app.jwtService)
	assert.NotNil(t, app.metrics)
}

func TestNewApplicationRejectsEmptySecret(t *testing.T) {
	t.Parallel()
	_, log := logger.NewTestLogger(t)

	cfg := testConfig()
	cfg.Auth.JWTSecret = ""

	_, err := newApplication(context.Background(), cfg, log)
	assert.ErrorContains(t, err, "JWT")
}

func TestOpenUserStoreUnsupportedDriver(t *testing.T) {
	t.Parallel()
	_, log := logger.NewTestLogger(t)

	cfg := testConfig()
	cfg.Database.Driver = "sqlite"

	_, err := openUserStore(context.Background(), cfg, log)
	assert.ErrorContains(t, err, `unsupported database driver "sqlite"`)
}

func TestRunMigrationsRequiresPostgres(t *testing.T) {
	t.Parallel()
	_, log := logger.NewTestLogger(t)

	err := runMigrations(context.Background(), testConfig(), "up", log)
	assert.ErrorContains(t, err, "postgres driver")
}

func TestServeAndShutdown(t *testing.T) {
	t.Parallel()
	buf, log := logger.NewTestLogger(t)

	app, err := newApplication(context.Background(), testConfig(), log)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln, app.setupRouter()) }()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(base + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = client.Post(base+"/api/users/register", "application/json",
		strings.NewReader(`{"name":"John Doe","email":"john@example.com","password":"password123"}`))
	require.NoError(t, err)
	var env struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, env.Success)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}

	logger.AssertLogContains(t, buf, "Server shutdown completed")
}
