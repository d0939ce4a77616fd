package queue

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railhook/internal/webhook"
)

type handlerFunc func(ctx context.Context, job *webhook.Job) error

func (f handlerFunc) Handle(ctx context.Context, job *webhook.Job) error {
	return f(ctx, job)
}

type deadLetterRecorder struct {
	recorded chan *webhook.Job
}

func newDeadLetterRecorder() *deadLetterRecorder {
	return &deadLetterRecorder{recorded: make(chan *webhook.Job, 1)}
}

func (r *deadLetterRecorder) Record(_ context.Context, job *webhook.Job, _ error) {
	r.recorded <- job
}

type failingRetryQueue struct {
	*InMemoryQueue
}

func (q *failingRetryQueue) Retry(context.Context, *webhook.Job, time.Duration) error {
	return errors.New("queue unavailable")
}

type failingDequeueQueue struct {
	*InMemoryQueue
	calls atomic.Int32
}

func (q *failingDequeueQueue) Dequeue(context.Context) (*webhook.Job, error) {
	q.calls.Add(1)
	return nil, errors.New("connection refused")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWorkerProcessesJob(t *testing.T) {
	q := NewInMemoryQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan *webhook.Job, 1)
	w := NewWorker(webhook.RailPix, q, handlerFunc(func(_ context.Context, job *webhook.Job) error {
		handled <- job
		return nil
	}), newDeadLetterRecorder(), 5, time.Millisecond, testLogger(), nil)

	go func() { _ = w.Run(ctx) }()

	_, err := q.Enqueue(ctx, newTestJob("job-ok"))
	require.NoError(t, err)

	select {
	case job := <-handled:
		assert.Equal(t, "job-ok", job.ID)
		assert.Equal(t, 1, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never handled")
	}
}

func TestWorkerRetriesThenDeadLetters(t *testing.T) {
	q := NewInMemoryQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts atomic.Int32
	deadLetter := newDeadLetterRecorder()
	w := NewWorker(webhook.RailBankSlip, q, handlerFunc(func(context.Context, *webhook.Job) error {
		attempts.Add(1)
		return webhook.NotFound("bank_slip", "ac-missing")
	}), deadLetter, 3, time.Millisecond, testLogger(), nil)

	go func() { _ = w.Run(ctx) }()

	_, err := q.Enqueue(ctx, newTestJob("job-exhausted"))
	require.NoError(t, err)

	select {
	case job := <-deadLetter.recorded:
		assert.Equal(t, "job-exhausted", job.ID)
		assert.Equal(t, 3, job.Attempt)
		assert.Equal(t, int32(3), attempts.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("job was never dead-lettered")
	}
}

func TestWorkerRetriesPermanentErrorsToo(t *testing.T) {
	q := NewInMemoryQueue(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Permanent errors walk the same attempt ladder: a collaborator outage
	// looks permanent but often heals.
	var attempts atomic.Int32
	deadLetter := newDeadLetterRecorder()
	w := NewWorker(webhook.RailBillPayment, q, handlerFunc(func(context.Context, *webhook.Job) error {
		attempts.Add(1)
		return errors.New("ledger responded 500")
	}), deadLetter, 2, time.Millisecond, testLogger(), nil)

	go func() { _ = w.Run(ctx) }()

	_, err := q.Enqueue(ctx, newTestJob("job-permanent"))
	require.NoError(t, err)

	select {
	case job := <-deadLetter.recorded:
		assert.Equal(t, 2, job.Attempt)
		assert.Equal(t, int32(2), attempts.Load())
	case <-time.After(5 * time.Second):
		t.Fatal("job was never dead-lettered")
	}
}

func TestWorkerPausesAfterDequeueErrors(t *testing.T) {
	q := &failingDequeueQueue{InMemoryQueue: NewInMemoryQueue(1)}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	w := NewWorker(webhook.RailPix, q, handlerFunc(func(context.Context, *webhook.Job) error {
		return nil
	}), nil, 5, time.Millisecond, testLogger(), nil)

	err := w.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	// One failed dequeue, then the pause absorbs the rest of the window.
	// Without it the loop spins thousands of times before the deadline.
	assert.LessOrEqual(t, q.calls.Load(), int32(2))
}

func TestWorkerDeadLettersWhenRetryEnqueueFails(t *testing.T) {
	q := &failingRetryQueue{InMemoryQueue: NewInMemoryQueue(8)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deadLetter := newDeadLetterRecorder()
	w := NewWorker(webhook.RailWireTransfer, q, handlerFunc(func(context.Context, *webhook.Job) error {
		return webhook.OutOfSequence("prerequisite missing")
	}), deadLetter, 5, time.Millisecond, testLogger(), nil)

	go func() { _ = w.Run(ctx) }()

	_, err := q.Enqueue(ctx, newTestJob("job-stuck"))
	require.NoError(t, err)

	select {
	case job := <-deadLetter.recorded:
		// Dead-lettered on the first attempt: losing the job silently is
		// worse than giving up early.
		assert.Equal(t, 1, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job was never dead-lettered")
	}
}
