package eventlog

import (
	"context"
	"time"

	"railhook/internal/webhook"
)

// Store is interface-driven to keep handlers testable and to allow swapping
// in-memory and PostgreSQL persistence without rewiring business code.
type Store interface {
	// Append inserts one entry. The store assigns ID and CreatedAt.
	Append(ctx context.Context, entry Entry) error

	// LastProcessedEvent returns the event name of the most recent
	// WasProcessed=true row for the authentication code, ordered by
	// creation time, or "" when no event was processed yet. This is the
	// sole read path the validator depends on: a handler must observe its
	// own prior writes through it.
	LastProcessedEvent(ctx context.Context, authenticationCode string) (webhook.EventName, error)

	// WasEventProcessed reports whether a WasProcessed=true row already
	// exists for the (authentication code, event) pair. Handlers use it to
	// recognize an envelope that was applied on an earlier attempt of the
	// same job, so batch retries stay idempotent.
	WasEventProcessed(ctx context.Context, authenticationCode string, event webhook.EventName) (bool, error)

	// FindByClient lists entries for a tenant, optionally narrowed to one
	// authentication code ("" means all), newest first.
	FindByClient(ctx context.Context, clientID, authenticationCode string) ([]Entry, error)

	// PurgeOlderThan deletes rows created strictly before the cutoff and
	// returns how many were removed.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
