// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
// A .env file in the working directory, if present, seeds variables that are not already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/credvault/credvault/internal/auth"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"3010"`

	// Credential store. The scheme selects the backend:
	// postgres://, sqlite://, redis:// or memory://.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Password hashing
	PasswordHasher string `env:"PASSWORD_HASHER" envDefault:"bcrypt"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"10"`

	// Comma-separated list of allowed origins (e.g., "https://example.com,*.example.org")
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AllowedOrigins returns the configured CORS origins with blanks removed.
func (c *Config) AllowedOrigins() []string {
	result := make([]string, 0, len(c.CORSAllowedOrigins))
	for _, origin := range c.CORSAllowedOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.AppPort < 1 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT %d out of range", c.AppPort))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q must be json or text", c.LogFormat))
	}

	switch c.PasswordHasher {
	case auth.AlgorithmBcrypt:
		if !auth.ValidBcryptCost(c.BcryptCost) {
			errs = append(errs, fmt.Errorf("BCRYPT_COST %d out of range", c.BcryptCost))
		}
	case auth.AlgorithmArgon2id:
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASHER %q must be %s or %s",
			c.PasswordHasher, auth.AlgorithmBcrypt, auth.AlgorithmArgon2id))
	}

	timeouts := []struct {
		name  string
		value time.Duration
	}{
		{"READ_TIMEOUT", c.ReadTimeout},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", timeout.name))
		}
	}

	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}

	return errors.Join(errs...)
}

// Load reads the optional dotenv files, parses environment variables and
// validates the result. With no arguments it looks for ".env".
// Returns an error if required variables are missing or invalid.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		// godotenv.Load never overrides variables already set in the process.
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", namedParseErrors(err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// namedParseErrors rewrites env parse errors to name the variable instead of
// the struct field, matching the messages Validate produces.
func namedParseErrors(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}

	errs := make([]error, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var pe env.ParseError
		if errors.As(e, &pe) {
			errs = append(errs, fmt.Errorf("%s: %w", envVarName(pe.Name), pe.Err))
			continue
		}
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// envVarName returns the env tag key for a Config field.
func envVarName(field string) string {
	sf, ok := reflect.TypeOf(Config{}).FieldByName(field)
	if !ok {
		return field
	}
	key, _, _ := strings.Cut(sf.Tag.Get("env"), ",")
	if key == "" {
		return field
	}
	return key
}
