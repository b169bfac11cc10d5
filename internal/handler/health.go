package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// readinessTimeout bounds the dependency checks of /readyz.
const readinessTimeout = 5 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	store   HealthChecker
	backend string
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
// backend names the store driver in readiness output (e.g. "postgres").
// Pass nil for store if it is not yet initialized.
func NewHealthHandler(store HealthChecker, backend string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		logger:  logger,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string            `json:"status"`
	Backend string            `json:"backend,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe endpoint.
// It returns 200 if the server is running. No dependency checks.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe endpoint.
// It returns 200 only if the credential store answers a ping.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.store == nil {
		checks["store"] = "not configured"
		healthy = false
	} else if err := h.store.Ping(ctx); err != nil {
		// Store errors can embed connection details; keep them in the logs only.
		h.logger.Warn("readiness_check_failed", "backend", h.backend, "error", err)
		checks["store"] = "unavailable"
		healthy = false
	} else {
		checks["store"] = "ok"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !healthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, HealthResponse{
		Status:  status,
		Backend: h.backend,
		Checks:  checks,
	})
}
