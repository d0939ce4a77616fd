// Package webhook defines the types shared across the payment-rail
// notification pipeline: the normalized envelope, the queue job, and the
// retryable error taxonomy.
package webhook

import (
	"encoding/json"
	"time"
)

// Rail identifies a payment method/provider channel.
type Rail string

const (
	RailPix          Rail = "pix"
	RailBankSlip     Rail = "bank-slip"
	RailWireTransfer Rail = "wire-transfer"
	RailBillPayment  Rail = "bill-payment"
)

// EventName discriminates lifecycle notifications within a rail.
type EventName string

// Envelope is the normalized wrapper around every inbound notification. It is
// immutable once built; the raw payload is kept for replay and audit.
type Envelope struct {
	// EntityID is the provider-assigned identifier of the affected
	// instrument.
	EntityID string `json:"entityId"`
	// IdempotencyKey is unique per delivery attempt and is the queue
	// deduplication key.
	IdempotencyKey string `json:"idempotencyKey"`
	// CorrelationID traces the notification across systems.
	CorrelationID string    `json:"correlationId"`
	EventName     EventName `json:"eventName"`
	// Timestamp is the provider clock, not ours.
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Job is the queue-resident unit of work: one batch of envelopes for a single
// (rail, event) pair. Its identity is the idempotency key of the first
// envelope; enqueueing the same identity twice is a no-op.
type Job struct {
	ID          string     `json:"id"`
	Rail        Rail       `json:"rail"`
	EventName   EventName  `json:"eventName"`
	Envelopes   []Envelope `json:"envelopes"`
	ClientID    string     `json:"clientId"`
	ValidSource bool       `json:"validSource"`
	// Attempt counts processing attempts, maintained by the worker.
	Attempt int `json:"attempt"`
}
