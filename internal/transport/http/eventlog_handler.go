package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
	"railhook/pkg/requestcontext"
)

// EventLogHandler exposes the processing trail to the notification source
// that produced it, scoped by the resolved client.
type EventLogHandler struct {
	store  eventlog.Store
	logger *slog.Logger
}

func NewEventLogHandler(store eventlog.Store, logger *slog.Logger) *EventLogHandler {
	return &EventLogHandler{store: store, logger: logger}
}

type eventLogEntry struct {
	AuthenticationCode string            `json:"authenticationCode"`
	EntityType         string            `json:"entityType"`
	EntityID           *string           `json:"entityId,omitempty"`
	EventName          webhook.EventName `json:"eventName"`
	WasProcessed       bool              `json:"wasProcessed"`
	SkipReason         *string           `json:"skipReason,omitempty"`
	Payload            json.RawMessage   `json:"payload,omitempty"`
	ProviderTimestamp  time.Time         `json:"providerTimestamp"`
	CreatedAt          time.Time         `json:"createdAt"`
}

// List handles GET /v1/event-log?authenticationCode=... for the calling
// client. Callers with an unrecognized credential get an empty trail, same
// status as everyone else.
func (h *EventLogHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !requestcontext.ValidSource(ctx) {
		respondJSON(w, h.logger, http.StatusOK, []eventLogEntry{})
		return
	}

	entries, err := h.store.FindByClient(ctx, requestcontext.ClientID(ctx), r.URL.Query().Get("authenticationCode"))
	if err != nil {
		h.logger.ErrorContext(ctx, "event log query failed", "error", err)
		respondError(w, h.logger, http.StatusInternalServerError, "failed to query event log")
		return
	}

	out := make([]eventLogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, eventLogEntry{
			AuthenticationCode: e.AuthenticationCode,
			EntityType:         e.EntityType,
			EntityID:           e.EntityID,
			EventName:          e.EventName,
			WasProcessed:       e.WasProcessed,
			SkipReason:         e.SkipReason,
			Payload:            e.Payload,
			ProviderTimestamp:  e.ProviderTimestamp,
			CreatedAt:          e.CreatedAt,
		})
	}
	respondJSON(w, h.logger, http.StatusOK, out)
}
