package eventlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railhook/internal/webhook"
)

type failingStore struct {
	Store
}

func (f *failingStore) PurgeOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errors.New("connection refused")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperPurgesBeyondRetention(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	retention := 60 * 24 * time.Hour
	now := time.Now().UTC()

	old := Entry{
		AuthenticationCode: "ac-old",
		EntityType:         "pix_transfer",
		EventName:          webhook.EventPixCashInReceived,
		WasProcessed:       true,
		CreatedAt:          now.AddDate(0, 0, -61),
	}
	require.NoError(t, store.Append(ctx, old))

	// Exactly at the horizon: the purge is strictly older-than, so this
	// entry is kept.
	boundary := old
	boundary.AuthenticationCode = "ac-boundary"
	boundary.CreatedAt = now.Add(-retention)
	require.NoError(t, store.Append(ctx, boundary))

	fresh := old
	fresh.AuthenticationCode = "ac-fresh"
	fresh.CreatedAt = now.AddDate(0, 0, -59)
	require.NoError(t, store.Append(ctx, fresh))

	sweeper := NewSweeper(store, retention, time.Hour, discardLogger(), nil)
	sweeper.now = func() time.Time { return now }
	sweeper.Sweep(ctx)

	remaining := store.All()
	require.Len(t, remaining, 2)
	assert.Equal(t, "ac-boundary", remaining[0].AuthenticationCode)
	assert.Equal(t, "ac-fresh", remaining[1].AuthenticationCode)
}

func TestSweeperSwallowsStoreErrors(t *testing.T) {
	sweeper := NewSweeper(&failingStore{}, 60*24*time.Hour, time.Hour, discardLogger(), nil)

	// Must not panic or propagate; the next tick tries again.
	sweeper.Sweep(context.Background())
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	sweeper := NewSweeper(NewInMemoryStore(), time.Hour, 10*time.Millisecond, discardLogger(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := sweeper.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
