package handler

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/credvault/credvault/internal/middleware"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Accounts *AccountHandler
	Health   *HealthHandler
	Metrics  *MetricsHandler
	Logger   *slog.Logger

	IsDevelopment      bool
	CORSAllowedOrigins []string
	MaxRequestBodySize int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	h := New()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger, cfg.IsDevelopment))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	r.Use(middleware.CORS(corsCfg))

	// Operational endpoints
	r.Get("/", h.Hello)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	if cfg.Metrics != nil {
		r.Get("/metrics", cfg.Metrics.Metrics)
	}

	// Account API
	r.Route("/api", func(r chi.Router) {
		if cfg.MaxRequestBodySize > 0 {
			r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		}

		r.Post("/register", cfg.Accounts.Register)
		r.Post("/login", cfg.Accounts.Login)
		r.Get("/users", cfg.Accounts.List)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
