package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the webhook pipeline.
type Metrics struct {
	EventsProcessed *prometheus.CounterVec
	JobsEnqueued    *prometheus.CounterVec
	JobsDuplicate   *prometheus.CounterVec
	JobsRetried     *prometheus.CounterVec
	DeadLetters     *prometheus.CounterVec
	SweeperDeleted  prometheus.Counter
	HandlerDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EventsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhook_events_processed_total",
			Help: "Webhook events that concluded processing, by rail, event and outcome",
		}, []string{"rail", "event", "outcome"}),
		JobsEnqueued: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhook_jobs_enqueued_total",
			Help: "Jobs accepted onto a rail queue",
		}, []string{"rail"}),
		JobsDuplicate: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhook_jobs_duplicate_total",
			Help: "Jobs discarded by idempotency-key deduplication",
		}, []string{"rail"}),
		JobsRetried: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhook_jobs_retried_total",
			Help: "Jobs re-enqueued after a retryable failure",
		}, []string{"rail"}),
		DeadLetters: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "railhook_dead_letters_total",
			Help: "Jobs dropped after exhausting the attempt ceiling",
		}, []string{"rail"}),
		SweeperDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "railhook_sweeper_deleted_rows_total",
			Help: "Event log rows purged by the retention sweeper",
		}),
		HandlerDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railhook_handler_duration_seconds",
			Help:    "Latency of rail handler job processing",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"rail"}),
	}
}

// ObserveHandler records one handler invocation.
func (m *Metrics) ObserveHandler(rail string, start time.Time) {
	m.HandlerDuration.WithLabelValues(rail).Observe(time.Since(start).Seconds())
}
