// Package eventlog owns the durable, append-only record of every webhook
// processing attempt. It doubles as the audit trail and as the read model the
// validator uses for "last processed event".
package eventlog

import (
	"time"

	"railhook/internal/webhook"
)

// Entry is one processing attempt. Rows are created the moment an attempt
// concludes (success or permanent failure) and are never mutated afterwards;
// only the retention sweeper deletes them.
//
// Rows with WasProcessed=false are informational: they never advance the
// entity's state and exist so that no failure is ever silently dropped.
type Entry struct {
	ID int64
	// AuthenticationCode is the stable business key of the underlying
	// transaction, not the envelope identity.
	AuthenticationCode string
	EntityType         string
	// EntityID is the internal record id, nil until resolved.
	EntityID     *string
	EventName    webhook.EventName
	WasProcessed bool
	SkipReason   *string
	// Payload is the raw envelope, kept for replay and audit.
	Payload           []byte
	ProviderTimestamp time.Time
	ClientID          string
	CreatedAt         time.Time
}

// Processed builds a WasProcessed=true entry for a concluded attempt.
func Processed(env webhook.Envelope, authCode, entityType string, entityID *string, clientID string) Entry {
	return Entry{
		AuthenticationCode: authCode,
		EntityType:         entityType,
		EntityID:           entityID,
		EventName:          env.EventName,
		WasProcessed:       true,
		Payload:            env.Payload,
		ProviderTimestamp:  env.Timestamp,
		ClientID:           clientID,
	}
}

// Skipped builds a WasProcessed=false entry carrying the skip reason.
func Skipped(env webhook.Envelope, authCode, entityType, reason, clientID string) Entry {
	return Entry{
		AuthenticationCode: authCode,
		EntityType:         entityType,
		EventName:          env.EventName,
		WasProcessed:       false,
		SkipReason:         &reason,
		Payload:            env.Payload,
		ProviderTimestamp:  env.Timestamp,
		ClientID:           clientID,
	}
}
