// Package httptransport wires the inbound HTTP surface: the provider-facing
// webhook intake, the per-client event log query, health and metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"railhook/internal/platform/middleware"
)

// HealthCheck reports readiness of one dependency, keyed by name.
type HealthCheck func(ctx context.Context) error

// RouterDeps holds everything the router mounts.
type RouterDeps struct {
	Webhooks  *WebhookHandler
	EventLog  *EventLogHandler
	Health    map[string]HealthCheck
	SourceKey map[string]string
	Logger    *slog.Logger
}

// NewRouter assembles the chi router with the shared middleware chain.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))

	r.Get("/healthz", healthHandler(deps.Health, deps.Logger))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ResolveSource(deps.SourceKey, deps.Logger))
		r.Post("/v1/webhooks/{rail}/{event}", deps.Webhooks.Receive)
		r.Get("/v1/event-log", deps.EventLog.List)
	})

	return r
}

func healthHandler(checks map[string]HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", "dependency", name, "error", err)
				report[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		respondJSON(w, logger, status, report)
	}
}
