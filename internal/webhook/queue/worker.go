package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"railhook/internal/platform/metrics"
	"railhook/internal/webhook"
)

// How long the consumer loop pauses after a failed dequeue before trying
// again, so a broken queue is polled instead of hammered.
const dequeueRetryDelay = time.Second

// Handler processes one claimed job. Envelopes inside the job must be handled
// strictly sequentially to preserve the ordering the validator assumes.
type Handler interface {
	Handle(ctx context.Context, job *webhook.Job) error
}

// DeadLetter runs exactly once per job, on the final failed attempt, before
// the job is dropped.
type DeadLetter interface {
	Record(ctx context.Context, job *webhook.Job, cause error)
}

// Worker is the long-lived consumer loop for one rail queue. Retryable
// failures are re-enqueued with exponential backoff; on exhaustion the
// dead-letter hook turns the failure into a durable record so nothing is
// silently lost.
type Worker struct {
	rail        webhook.Rail
	queue       Queue
	handler     Handler
	deadLetter  DeadLetter
	maxAttempts int
	backoffBase time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewWorker(
	rail webhook.Rail,
	q Queue,
	handler Handler,
	deadLetter DeadLetter,
	maxAttempts int,
	backoffBase time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Worker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		rail:        rail,
		queue:       q,
		handler:     handler,
		deadLetter:  deadLetter,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		logger:      logger,
		metrics:     m,
	}
}

// Run consumes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			w.logger.ErrorContext(ctx, "dequeue failed",
				"rail", w.rail,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dequeueRetryDelay):
			}
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *webhook.Job) {
	start := time.Now()
	job.Attempt++

	err := w.handler.Handle(ctx, job)
	if w.metrics != nil {
		w.metrics.ObserveHandler(string(w.rail), start)
	}
	if err == nil {
		return
	}

	retryable := webhook.IsRetryable(err)
	if job.Attempt >= w.maxAttempts {
		w.logger.ErrorContext(ctx, "job exhausted attempts",
			"rail", w.rail,
			"job_id", job.ID,
			"event", job.EventName,
			"attempt", job.Attempt,
			"retryable", retryable,
			"error", err,
		)
		if w.deadLetter != nil {
			w.deadLetter.Record(ctx, job, err)
		}
		if w.metrics != nil {
			w.metrics.DeadLetters.WithLabelValues(string(w.rail)).Inc()
		}
		return
	}

	// Permanent errors also walk the attempt ladder: a collaborator outage
	// looks permanent but often heals, and the ceiling bounds the damage.
	delay := Backoff(w.backoffBase, job.Attempt)
	if retryable {
		w.logger.WarnContext(ctx, "job will retry",
			"rail", w.rail,
			"job_id", job.ID,
			"event", job.EventName,
			"attempt", job.Attempt,
			"delay", delay,
			"error", err,
		)
	} else {
		w.logger.ErrorContext(ctx, "job failed, will retry",
			"rail", w.rail,
			"job_id", job.ID,
			"event", job.EventName,
			"attempt", job.Attempt,
			"delay", delay,
			"error", err,
		)
	}
	if retryErr := w.queue.Retry(ctx, job, delay); retryErr != nil {
		w.logger.ErrorContext(ctx, "re-enqueue failed, dead-lettering early",
			"rail", w.rail,
			"job_id", job.ID,
			"error", retryErr,
		)
		if w.deadLetter != nil {
			w.deadLetter.Record(ctx, job, err)
		}
		return
	}
	if w.metrics != nil {
		w.metrics.JobsRetried.WithLabelValues(string(w.rail)).Inc()
	}
}
