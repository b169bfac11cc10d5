// Package main is the entrypoint for the credvault API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/credvault/credvault/internal/auth"
	"github.com/credvault/credvault/internal/config"
	"github.com/credvault/credvault/internal/handler"
	"github.com/credvault/credvault/internal/metrics"
	"github.com/credvault/credvault/internal/server"
	"github.com/credvault/credvault/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Connect to the credential store; the service cannot run without it.
	users, backend, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to credential store",
			slog.String("backend", backend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to credential store", "backend", backend)

	hasher, err := auth.NewHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		logger.Error("failed to configure password hasher", "error", err)
		_ = users.Close()
		os.Exit(1)
	}

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	accountService := service.NewAccountService(users, hasher, metricsRecorder)

	// Setup router
	r := handler.NewRouter(handler.RouterConfig{
		Accounts:           handler.NewAccountHandler(accountService, logger),
		Health:             handler.NewHealthHandler(users, backend, logger),
		Metrics:            handler.NewMetricsHandler(metricsRecorder),
		Logger:             logger,
		IsDevelopment:      cfg.IsDevelopment(),
		CORSAllowedOrigins: cfg.AllowedOrigins(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	// Create and run server
	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("credential store", func(ctx context.Context) error {
		return users.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"password_hasher", hasher.Algorithm(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL drops the password from a connection URL, keeping the username.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from a driver error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
