package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mergington/internal/activity"
)

// NewRouter assembles the public HTTP surface: the activity registry routes
// plus operational endpoints.
func NewRouter(activityHandler *activity.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	activityHandler.Register(r)

	return r
}

// handleHealthz reports a simple OK status for container health checks.
func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
