package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "ACCOUNTS"

// MinProductionSecretLength is the minimum JWT secret length accepted in production.
const MinProductionSecretLength = 32

// DevelopmentJWTSecret signs tokens when no secret is configured outside production.
const DevelopmentJWTSecret = "development-secret-do-not-use-in-production"

// ErrWeakSecret is returned when production runs without a usable JWT secret.
var ErrWeakSecret = fmt.Errorf(
	"auth.jwt_secret must be at least %d characters in production",
	MinProductionSecretLength,
)

// aliases maps conventional, unprefixed variable names onto config keys.
// Prefixed variables win when both are set.
var aliases = map[string][]string{
	"environment":     {"APP_ENV"},
	"server.port":     {"PORT"},
	"database.url":    {"MONGODB_URI", "DATABASE_URL"},
	"auth.jwt_secret": {"JWT_SECRET"},
}

// Options tunes Load. The zero value reads ./.env and ./config.yaml if present.
type Options struct {
	// EnvFile is loaded into the process environment before anything else.
	// Existing variables are never overridden.
	EnvFile string
	// ConfigPaths are searched for config.yaml.
	ConfigPaths []string
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadWithOptions(Options{EnvFile: ".env", ConfigPaths: []string{"."}})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range opts.ConfigPaths {
		v.AddConfigPath(p)
	}
	if len(opts.ConfigPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range aliases {
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))

	if cfg.Auth.JWTSecret == "" && cfg.Environment != EnvProduction {
		cfg.Auth.JWTSecret = DevelopmentJWTSecret
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct constraints and the production rules.
func Validate(cfg *Config) error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.IsProduction() && len(cfg.Auth.JWTSecret) < MinProductionSecretLength {
		return ErrWeakSecret
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.url", "mongodb://localhost:27017")
	v.SetDefault("database.name", "accounts")
	v.SetDefault("database.timeout_seconds", 10)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.bcrypt_cost", 10)
}
