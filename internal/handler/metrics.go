package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/credvault/credvault/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeLabeled(w, "credvault_registrations_total", snap.Registrations)
	writeLabeled(w, "credvault_logins_total", snap.Logins)
	writeMetric(w, "credvault_user_listings_total %d\n", snap.UserListings)
	writeMetric(w, "credvault_password_hash_duration_seconds_count %d\n", snap.HashDurationCount)
	writeMetric(w, "credvault_password_hash_duration_seconds_sum %.6f\n", float64(snap.HashDurationTotalNs)/1e9)
}

// writeLabeled writes one line per outcome, sorted for stable output.
func writeLabeled(w http.ResponseWriter, name string, counts map[string]uint64) {
	outcomes := make([]string, 0, len(counts))
	for outcome := range counts {
		outcomes = append(outcomes, outcome)
	}
	sort.Strings(outcomes)

	for _, outcome := range outcomes {
		writeMetric(w, "%s{outcome=%q} %d\n", name, outcome, counts[outcome])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
