// Package ledger defines the consumed capabilities of the transaction ledger
// and account services. The pipeline never owns this data: it only reads to
// check prior existence and writes status fields and webhook-derived
// attributes through these interfaces.
package ledger

import (
	"context"
	"time"
)

// Status is the canonical ledger status projected from lifecycle events.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusProcessing Status = "PROCESSING"
	StatusDone       Status = "DONE"
	StatusFailed     Status = "FAILED"
	StatusRefunded   Status = "REFUNDED"
	StatusCancelled  Status = "CANCELLED"
)

// Record is the ledger's view of a transaction, keyed by its authentication
// code across all lifecycle notifications.
type Record struct {
	ID                 string    `json:"id"`
	AuthenticationCode string    `json:"authenticationCode"`
	Reference          string    `json:"reference,omitempty"`
	Type               string    `json:"type"`
	Status             Status    `json:"status"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	ClientID           string    `json:"clientId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Account is the resolved destination of an inbound transfer.
type Account struct {
	Number   string `json:"number"`
	Branch   string `json:"branch"`
	ClientID string `json:"clientId"`
	OwnerID  string `json:"ownerId"`
}

// CreateParams carries everything needed to open a ledger record from the
// first webhook of a flow.
type CreateParams struct {
	AuthenticationCode string    `json:"authenticationCode"`
	CorrelationID      string    `json:"correlationId"`
	IdempotencyKey     string    `json:"idempotencyKey"`
	EntityID           string    `json:"entityId"`
	Type               string    `json:"type"`
	Status             Status    `json:"status"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	ClientID           string    `json:"clientId"`
	Description        string    `json:"description,omitempty"`
	ProviderTimestamp  time.Time `json:"providerTimestamp"`
}

// UpdateParams carries a webhook-driven update to an existing record.
type UpdateParams struct {
	AuthenticationCode string    `json:"authenticationCode"`
	Status             Status    `json:"status"`
	CorrelationID      string    `json:"correlationId"`
	IdempotencyKey     string    `json:"idempotencyKey"`
	EntityID           string    `json:"entityId"`
	Description        string    `json:"description,omitempty"`
	ProviderTimestamp  time.Time `json:"providerTimestamp"`
}

// Service is the transaction ledger collaborator. Lookups return
// sentinel.ErrNotFound (wrapped) when no record exists.
type Service interface {
	FindByAuthenticationCode(ctx context.Context, authenticationCode string) (*Record, error)
	// FindByReference resolves a record by the internal reference number,
	// the alternate key bank slips are issued under.
	FindByReference(ctx context.Context, reference string) (*Record, error)
	CreateFromWebhook(ctx context.Context, params CreateParams) (*Record, error)
	UpdateStatus(ctx context.Context, authenticationCode string, status Status) error
	UpdateFromWebhook(ctx context.Context, params UpdateParams) error
}

// AccountLookup resolves destination accounts for inbound transfers.
type AccountLookup interface {
	FindByNumber(ctx context.Context, accountNumber string) (*Account, error)
}
