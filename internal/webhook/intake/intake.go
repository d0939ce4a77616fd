// Package intake builds queue jobs from validated notification batches and
// admits them onto the per-rail queues. Admission is fire-and-forget from the
// caller's point of view: duplicates are discarded here, never surfaced.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"railhook/internal/platform/metrics"
	"railhook/internal/webhook"
	"railhook/internal/webhook/queue"
	"railhook/pkg/requestcontext"
)

// ErrInvalidBatch marks a batch that can never be accepted no matter how often
// it is redelivered: empty, or missing the idempotency key that gives the job
// its identity. Transport answers it with a client error instead of inviting
// another delivery.
var ErrInvalidBatch = errors.New("invalid notification batch")

// Service admits notification batches for a single rail.
type Service struct {
	rail    webhook.Rail
	queue   queue.Queue
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(rail webhook.Rail, q queue.Queue, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{rail: rail, queue: q, logger: logger, metrics: m}
}

// Accept enqueues the batch as one job. The job identity is the idempotency
// key of the first envelope, so a provider redelivery of the same batch is a
// no-op. Accept succeeding means "durably queued", not "processed".
func (s *Service) Accept(ctx context.Context, event webhook.EventName, envelopes []webhook.Envelope) error {
	if len(envelopes) == 0 {
		return fmt.Errorf("%w: empty batch for rail %s", ErrInvalidBatch, s.rail)
	}

	job := &webhook.Job{
		ID:          envelopes[0].IdempotencyKey,
		Rail:        s.rail,
		EventName:   event,
		Envelopes:   envelopes,
		ClientID:    requestcontext.ClientID(ctx),
		ValidSource: requestcontext.ValidSource(ctx),
	}
	if job.ID == "" {
		return fmt.Errorf("%w: no idempotency key for rail %s", ErrInvalidBatch, s.rail)
	}

	accepted, err := s.queue.Enqueue(ctx, job)
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}
	if !accepted {
		s.logger.InfoContext(ctx, "duplicate delivery discarded",
			"rail", s.rail,
			"job_id", job.ID,
			"event", event,
		)
		if s.metrics != nil {
			s.metrics.JobsDuplicate.WithLabelValues(string(s.rail)).Inc()
		}
		return nil
	}

	s.logger.DebugContext(ctx, "job enqueued",
		"rail", s.rail,
		"job_id", job.ID,
		"event", event,
		"envelopes", len(envelopes),
	)
	if s.metrics != nil {
		s.metrics.JobsEnqueued.WithLabelValues(string(s.rail)).Inc()
	}
	return nil
}
