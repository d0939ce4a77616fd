package eventlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"railhook/internal/webhook"
)

// Publisher is satisfied by the Kafka producer wrapper. Keeping the interface
// here lets tests substitute an in-process sink.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Forwarder mirrors concluded entries onto the audit topic for downstream
// consumers (reconciliation tooling, dashboards). The PostgreSQL log remains
// the source of truth; forwarding is best-effort and never fails processing.
type Forwarder struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewForwarder(publisher Publisher, logger *slog.Logger) *Forwarder {
	return &Forwarder{publisher: publisher, logger: logger}
}

type forwardedEntry struct {
	AuthenticationCode string            `json:"authenticationCode"`
	EntityType         string            `json:"entityType"`
	EntityID           *string           `json:"entityId,omitempty"`
	EventName          webhook.EventName `json:"eventName"`
	WasProcessed       bool              `json:"wasProcessed"`
	SkipReason         *string           `json:"skipReason,omitempty"`
	ProviderTimestamp  time.Time         `json:"providerTimestamp"`
	ClientID           string            `json:"clientId"`
}

// Forward publishes one entry keyed by authentication code so all
// notifications of a transaction land in one partition.
func (f *Forwarder) Forward(ctx context.Context, entry Entry) {
	if f == nil || f.publisher == nil {
		return
	}
	value, err := json.Marshal(forwardedEntry{
		AuthenticationCode: entry.AuthenticationCode,
		EntityType:         entry.EntityType,
		EntityID:           entry.EntityID,
		EventName:          entry.EventName,
		WasProcessed:       entry.WasProcessed,
		SkipReason:         entry.SkipReason,
		ProviderTimestamp:  entry.ProviderTimestamp,
		ClientID:           entry.ClientID,
	})
	if err != nil {
		f.logger.ErrorContext(ctx, "marshal forwarded entry", "error", err)
		return
	}
	if err := f.publisher.Publish(ctx, entry.AuthenticationCode, value); err != nil {
		f.logger.WarnContext(ctx, "forward event log entry",
			"authentication_code", entry.AuthenticationCode,
			"event", entry.EventName,
			"error", err,
		)
	}
}
