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

type wireTransferPayload struct {
	AuthenticationCode string `json:"authenticationCode"`
	Amount             int64  `json:"amount"`
	Currency           string `json:"currency"`
	AccountNumber      string `json:"accountNumber"`
	SenderName         string `json:"senderName"`
	SenderDocument     string `json:"senderDocument"`
	Description        string `json:"description"`
}

// WireTransferHandler processes inbound TED events. RECEIVED opens the
// ledger record after resolving the destination account; CLEARED and
// REJECTED update it.
//
// Authentication code precedence for wire transfers: payload
// authenticationCode first, envelope entityId as fallback.
type WireTransferHandler struct {
	processor
}

func NewWireTransferHandler(deps Deps) *WireTransferHandler {
	return &WireTransferHandler{processor: newProcessor(deps, webhook.RailWireTransfer)}
}

func (h *WireTransferHandler) register(handlers map[webhook.EventName]applyFunc) {
	handlers[webhook.EventWireTransferReceived] = h.received
	handlers[webhook.EventWireTransferCleared] = h.update
	handlers[webhook.EventWireTransferRejected] = h.update
}

func (h *WireTransferHandler) received(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
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
		Type:               "WIRE_TRANSFER_IN",
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

func (h *WireTransferHandler) update(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
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

func (h *WireTransferHandler) decode(env webhook.Envelope) (wireTransferPayload, string, error) {
	var payload wireTransferPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return payload, "", fmt.Errorf("decode wire transfer payload: %w", err)
	}
	authCode := payload.AuthenticationCode
	if authCode == "" {
		authCode = env.EntityID
	}
	if authCode == "" {
		return payload, "", fmt.Errorf("wire transfer envelope %s: no authentication code", env.IdempotencyKey)
	}
	return payload, authCode, nil
}
