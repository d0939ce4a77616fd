package rail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"railhook/internal/webhook"
	"railhook/internal/webhook/ledger"
	"railhook/pkg/platform/sentinel"
)

type billPaymentPayload struct {
	AuthenticationCode string    `json:"authenticationCode"`
	Barcode            string    `json:"barcode"`
	Amount             int64     `json:"amount"`
	Currency           string    `json:"currency"`
	DueDate            time.Time `json:"dueDate"`
	Description        string    `json:"description"`
}

// BillPaymentHandler processes bill payment events. Payments are initiated
// by our customer, so the ledger record always pre-exists; every event is an
// update and a missing record is the retryable creation race.
//
// Authentication code precedence for bill payments: payload
// authenticationCode first, envelope entityId as fallback.
type BillPaymentHandler struct {
	processor
}

func NewBillPaymentHandler(deps Deps) *BillPaymentHandler {
	return &BillPaymentHandler{processor: newProcessor(deps, webhook.RailBillPayment)}
}

func (h *BillPaymentHandler) register(handlers map[webhook.EventName]applyFunc) {
	handlers[webhook.EventBillPaymentReceived] = h.received
	handlers[webhook.EventBillPaymentConfirmed] = h.update
	handlers[webhook.EventBillPaymentSettled] = h.update
	handlers[webhook.EventBillPaymentRefused] = h.update
}

// received acknowledges the provider accepted the payment; only the status
// moves.
func (h *BillPaymentHandler) received(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	_, authCode, err := h.decode(env)
	if err != nil {
		return err
	}
	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
		return err
	}

	record, err := h.deps.Ledger.FindByAuthenticationCode(ctx, authCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return webhook.NotFound(h.entityType, authCode)
		}
		return err
	}

	if err := h.validate(ctx, authCode, env.EventName); err != nil {
		return err
	}

	status, _ := ProjectStatus(env.EventName)
	if err := h.deps.Ledger.UpdateStatus(ctx, authCode, status); err != nil {
		return err
	}
	return h.conclude(ctx, job, env, authCode, &record.ID)
}

func (h *BillPaymentHandler) update(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	payload, authCode, err := h.decode(env)
	if err != nil {
		return err
	}
	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
		return err
	}

	record, err := h.deps.Ledger.FindByAuthenticationCode(ctx, authCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return webhook.NotFound(h.entityType, authCode)
		}
		return err
	}

	if err := h.validate(ctx, authCode, env.EventName); err != nil {
		return err
	}

	status, _ := ProjectStatus(env.EventName)
	err = h.deps.Ledger.UpdateFromWebhook(ctx, ledger.UpdateParams{
		AuthenticationCode: authCode,
		Status:             status,
		CorrelationID:      env.CorrelationID,
		IdempotencyKey:     env.IdempotencyKey,
		EntityID:           env.EntityID,
		Description:        payload.Description,
		ProviderTimestamp:  env.Timestamp,
	})
	if err != nil {
		return err
	}
	return h.conclude(ctx, job, env, authCode, &record.ID)
}

func (h *BillPaymentHandler) decode(env webhook.Envelope) (billPaymentPayload, string, error) {
	var payload billPaymentPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return payload, "", fmt.Errorf("decode bill payment payload: %w", err)
	}
	authCode := payload.AuthenticationCode
	if authCode == "" {
		authCode = env.EntityID
	}
	if authCode == "" {
		return payload, "", fmt.Errorf("bill payment envelope %s: no authentication code", env.IdempotencyKey)
	}
	return payload, authCode, nil
}
