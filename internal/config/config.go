package config

import "time"

// Environments the service knows how to run in.
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Storage backends selectable with database.driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Environment string         `mapstructure:"environment" validate:"required,oneof=development test production"`
	Server      ServerConfig   `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig     `mapstructure:"auth"        validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"          validate:"required,oneof=mongo postgres memory"`
	URL            string `mapstructure:"url"             validate:"required_unless=Driver memory"`
	Name           string `mapstructure:"name"            validate:"required_if=Driver mongo"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret  string `mapstructure:"jwt_secret"  validate:"required"`
	BcryptCost int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// IsProduction reports whether the service runs with production behavior
// (no stack traces in responses, generic messages for unexpected errors).
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ShutdownTimeout returns the graceful shutdown window.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Timeout returns the connect/ping timeout for the storage backend.
func (c DatabaseConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
