// Package queue provides the per-rail intake queues: deduplication by
// idempotency key, blocking consumption, and delayed re-enqueue for retries.
package queue

import (
	"context"
	"time"

	"railhook/internal/webhook"
)

// Queue owns a job from Enqueue until a worker claims it via Dequeue.
// Implementations must be safe for concurrent producers and consumers.
type Queue interface {
	// Enqueue adds the job unless one with the same ID was already seen.
	// Duplicates are an accepted no-op: the method returns false and no
	// error, and the caller still answers "received".
	Enqueue(ctx context.Context, job *webhook.Job) (accepted bool, err error)

	// Dequeue blocks until a job is ready or the context is cancelled.
	Dequeue(ctx context.Context) (*webhook.Job, error)

	// Retry re-enqueues the job (same identity) to become ready again
	// after the delay. The dedup marker is not consulted: a retried job
	// was already admitted once.
	Retry(ctx context.Context, job *webhook.Job, delay time.Duration) error
}

// Backoff returns the delay before the given attempt is retried:
// base, 2*base, 4*base, ... Attempt counts from 1.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
