// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml, a .env file and environment
// variables. Variables use the ACCOUNTS_ prefix; the conventional names
// PORT, MONGODB_URI, DATABASE_URL, JWT_SECRET and APP_ENV are honored too.
package config
