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

type bankSlipPayload struct {
	AuthenticationCode string    `json:"authenticationCode"`
	ReferenceNumber    string    `json:"referenceNumber"`
	Barcode            string    `json:"barcode"`
	Amount             int64     `json:"amount"`
	PaidAmount         int64     `json:"paidAmount"`
	Currency           string    `json:"currency"`
	DueDate            time.Time `json:"dueDate"`
	Description        string    `json:"description"`
}

// BankSlipHandler processes boleto lifecycle events. Slips are issued by the
// ledger before the provider ever calls back, so every event updates an
// existing record; a missing record is the retryable race between issuance
// and the provider's first confirmation.
//
// Authentication code precedence for bank slips: payload authenticationCode
// first; when absent, the record is resolved by the internal reference
// number the slip was issued under.
type BankSlipHandler struct {
	processor
}

func NewBankSlipHandler(deps Deps) *BankSlipHandler {
	return &BankSlipHandler{processor: newProcessor(deps, webhook.RailBankSlip)}
}

func (h *BankSlipHandler) register(handlers map[webhook.EventName]applyFunc) {
	handlers[webhook.EventBankSlipRegistered] = h.registered
	handlers[webhook.EventBankSlipPaid] = h.update
	handlers[webhook.EventBankSlipSettled] = h.update
	handlers[webhook.EventBankSlipCancelled] = h.update
	handlers[webhook.EventBankSlipRefused] = h.update
}

// registered confirms the provider accepted the slip; only the status moves.
func (h *BankSlipHandler) registered(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	record, _, err := h.resolve(ctx, env)
	if err != nil {
		return err
	}
	authCode := record.AuthenticationCode

	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
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

func (h *BankSlipHandler) update(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	record, payload, err := h.resolve(ctx, env)
	if err != nil {
		return err
	}
	authCode := record.AuthenticationCode

	unlock := entityLocks.Lock(authCode)
	defer unlock()

	if applied, err := h.alreadyApplied(ctx, authCode, env.EventName); err != nil || applied {
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

// resolve finds the slip's ledger record, by authentication code when the
// payload carries one, otherwise by the internal reference number.
func (h *BankSlipHandler) resolve(ctx context.Context, env webhook.Envelope) (*ledger.Record, bankSlipPayload, error) {
	var payload bankSlipPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return nil, payload, fmt.Errorf("decode bank slip payload: %w", err)
	}

	switch {
	case payload.AuthenticationCode != "":
		record, err := h.deps.Ledger.FindByAuthenticationCode(ctx, payload.AuthenticationCode)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, payload, webhook.NotFound(h.entityType, payload.AuthenticationCode)
			}
			return nil, payload, err
		}
		return record, payload, nil
	case payload.ReferenceNumber != "":
		record, err := h.deps.Ledger.FindByReference(ctx, payload.ReferenceNumber)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, payload, webhook.NotFound(h.entityType, payload.ReferenceNumber)
			}
			return nil, payload, err
		}
		return record, payload, nil
	default:
		return nil, payload, fmt.Errorf("bank slip envelope %s: no authentication code or reference number", env.IdempotencyKey)
	}
}
