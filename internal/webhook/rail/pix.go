package rail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"railhook/internal/webhook"
	"railhook/internal/webhook/ledger"
	"railhook/pkg/platform/sentinel"
)

// pixPayload is the rail-specific body of PIX notifications.
type pixPayload struct {
	AuthenticationCode string `json:"authenticationCode"`
	EndToEndID         string `json:"endToEndId"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	AccountNumber      string `json:"accountNumber"`
	Description        string `json:"description"`
}

// PixHandler processes instant-transfer events.
//
// Authentication code precedence for PIX: payload authenticationCode first,
// envelope entityId as fallback. Cash-in and refund events open their own
// ledger record; cash-out events confirm a transfer our side initiated, so
// the record must already exist.
type PixHandler struct {
	processor
}

func NewPixHandler(deps Deps) *PixHandler {
	return &PixHandler{processor: newProcessor(deps, webhook.RailPix)}
}

func (h *PixHandler) register(handlers map[webhook.EventName]applyFunc) {
	handlers[webhook.EventPixCashInReceived] = h.cashInReceived
	handlers[webhook.EventPixCashInCleared] = h.update
	handlers[webhook.EventPixCashOutReceived] = h.update
	handlers[webhook.EventPixCashOutCleared] = h.update
	handlers[webhook.EventPixCashOutRejected] = h.update
	handlers[webhook.EventPixRefundReceived] = h.refundReceived
}

// cashInReceived opens the ledger record for an inbound transfer. The
// destination account not existing yet is the retryable prerequisite-missing
// condition: account provisioning and the first notification race.
func (h *PixHandler) cashInReceived(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	payload, authCode, err := h.decode(env)
	if err != nil {
		return err
	}
	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
		return err
	}
	if err := h.validate(ctx, authCode, env.EventName); err != nil {
		return err
	}

	account, err := h.deps.Accounts.FindByNumber(ctx, payload.AccountNumber)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return webhook.NotFound("account", payload.AccountNumber)
		}
		return err
	}

	status, _ := ProjectStatus(env.EventName)
	record, err := h.deps.Ledger.CreateFromWebhook(ctx, ledger.CreateParams{
		AuthenticationCode: authCode,
		CorrelationID:      env.CorrelationID,
		IdempotencyKey:     env.IdempotencyKey,
		EntityID:           env.EntityID,
		Type:               "PIX_CASH_IN",
		Status:             status,
		Amount:             payload.Amount,
		Currency:           payload.Currency,
		ClientID:           account.ClientID,
		Description:        payload.Description,
		ProviderTimestamp:  env.Timestamp,
	})
	if err != nil {
		return err
	}
	return h.conclude(ctx, job, env, authCode, &record.ID)
}

// refundReceived opens a refund flow keyed by its own authentication code.
func (h *PixHandler) refundReceived(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	payload, authCode, err := h.decode(env)
	if err != nil {
		return err
	}
	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
		return err
	}
	if err := h.validate(ctx, authCode, env.EventName); err != nil {
		return err
	}

	status, _ := ProjectStatus(env.EventName)
	record, err := h.deps.Ledger.CreateFromWebhook(ctx, ledger.CreateParams{
		AuthenticationCode: authCode,
		CorrelationID:      env.CorrelationID,
		IdempotencyKey:     env.IdempotencyKey,
		EntityID:           env.EntityID,
		Type:               "PIX_REFUND",
		Status:             status,
		Amount:             payload.Amount,
		Currency:           payload.Currency,
		ClientID:           job.ClientID,
		Description:        payload.Description,
		ProviderTimestamp:  env.Timestamp,
	})
	if err != nil {
		return err
	}
	return h.conclude(ctx, job, env, authCode, &record.ID)
}

// update applies follow-up events to an existing record.
func (h *PixHandler) update(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
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

func (h *PixHandler) decode(env webhook.Envelope) (pixPayload, string, error) {
	var payload pixPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return payload, "", fmt.Errorf("decode pix payload: %w", err)
	}
	authCode := payload.AuthenticationCode
	if authCode == "" {
		authCode = env.EntityID
	}
	if authCode == "" {
		return payload, "", fmt.Errorf("pix envelope %s: no authentication code", env.IdempotencyKey)
	}
	return payload, authCode, nil
}
