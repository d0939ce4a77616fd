package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"railhook/internal/webhook"
	"railhook/internal/webhook/intake"
)

// rails maps the URL path segment to the rail whose queue receives the batch.
var rails = map[string]webhook.Rail{
	"pix":           webhook.RailPix,
	"bank-slip":     webhook.RailBankSlip,
	"wire-transfer": webhook.RailWireTransfer,
	"bill-payment":  webhook.RailBillPayment,
}

// WebhookHandler is the provider-facing intake endpoint. It normalizes the
// request into envelopes, hands them to the rail's intake service and always
// acknowledges with 202: processing is asynchronous and redeliveries are
// welcome.
type WebhookHandler struct {
	intakes map[webhook.Rail]*intake.Service
	logger  *slog.Logger
}

func NewWebhookHandler(intakes map[webhook.Rail]*intake.Service, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{intakes: intakes, logger: logger}
}

// Receive handles POST /v1/webhooks/{rail}/{event}. The body is either a
// single envelope or a JSON array of envelopes delivered as one batch.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	rail, ok := rails[chi.URLParam(r, "rail")]
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "unknown rail")
		return
	}
	event := webhook.EventName(chi.URLParam(r, "event"))

	envelopes, err := decodeEnvelopes(r, event)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "malformed notification body")
		return
	}

	svc, ok := h.intakes[rail]
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "rail not accepting notifications")
		return
	}
	if err := svc.Accept(r.Context(), event, envelopes); err != nil {
		// A batch that can never succeed must not be redelivered.
		if errors.Is(err, intake.ErrInvalidBatch) {
			respondError(w, h.logger, http.StatusBadRequest, "invalid notification batch")
			return
		}
		h.logger.ErrorContext(r.Context(), "intake failed",
			"rail", rail,
			"event", event,
			"error", err,
		)
		// The provider will redeliver; 503 asks it to.
		respondError(w, h.logger, http.StatusServiceUnavailable, "temporarily unable to accept notifications")
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{"status": "received"})
}

// decodeEnvelopes accepts either a bare envelope object or an array of them.
// The event name from the path wins over any per-envelope value so a batch
// cannot smuggle mixed events past the queue's (rail, event) identity.
func decodeEnvelopes(r *http.Request, event webhook.EventName) ([]webhook.Envelope, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var envelopes []webhook.Envelope
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &envelopes); err != nil {
			return nil, err
		}
	} else {
		var single webhook.Envelope
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		envelopes = []webhook.Envelope{single}
	}

	for i := range envelopes {
		envelopes[i].EventName = event
	}
	return envelopes, nil
}
