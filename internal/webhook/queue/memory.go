package queue

import (
	"context"
	"sync"
	"time"

	"railhook/internal/webhook"
)

// InMemoryQueue is a channel-backed Queue for unit tests and single-process
// deployments.
type InMemoryQueue struct {
	mu   sync.Mutex
	seen map[string]struct{}
	jobs chan *webhook.Job
}

func NewInMemoryQueue(capacity int) *InMemoryQueue {
	if capacity <= 0 {
		capacity = 1024
	}
	return &InMemoryQueue{
		seen: make(map[string]struct{}),
		jobs: make(chan *webhook.Job, capacity),
	}
}

func (q *InMemoryQueue) Enqueue(_ context.Context, job *webhook.Job) (bool, error) {
	q.mu.Lock()
	if _, dup := q.seen[job.ID]; dup {
		q.mu.Unlock()
		return false, nil
	}
	q.seen[job.ID] = struct{}{}
	q.mu.Unlock()

	q.jobs <- job
	return true, nil
}

func (q *InMemoryQueue) Dequeue(ctx context.Context) (*webhook.Job, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case job := <-q.jobs:
		return job, nil
	}
}

func (q *InMemoryQueue) Retry(_ context.Context, job *webhook.Job, delay time.Duration) error {
	time.AfterFunc(delay, func() {
		q.jobs <- job
	})
	return nil
}
