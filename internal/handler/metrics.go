package handler

import (
	"fmt"
	"net/http"

	"github.com/Ry3n-Huang/SimpleMicroservices/internal/metrics"
)

// RecordCounter reports current collection sizes.
type RecordCounter interface {
	CountUsers() int
	CountTodos() int
}

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
	counter     RecordCounter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter, counter RecordCounter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter, counter: counter}
}

// Metrics returns metrics in Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "records_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "records_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "records_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "records_todos_updated_total %d\n", snap.TodosUpdated)
	writeMetric(w, "records_todos_deleted_total{cause=\"request\"} %d\n", snap.TodosDeleted)
	writeMetric(w, "records_todos_deleted_total{cause=\"cascade\"} %d\n", snap.TodosCascaded)
	writeMetric(w, "records_validation_failures_total %d\n", snap.ValidationFailures)

	if h.counter != nil {
		writeMetric(w, "records_users %d\n", h.counter.CountUsers())
		writeMetric(w, "records_todos %d\n", h.counter.CountTodos())
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
