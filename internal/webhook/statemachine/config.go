package statemachine

import "railhook/internal/webhook"

// DefaultConfig returns the full transition table for all four rails.
//
// Flows:
//
//	PIX cash-in:   RECEIVED -> CLEARED(terminal)
//	PIX cash-out:  RECEIVED -> CLEARED(terminal) | REJECTED(terminal)
//	PIX refund:    RECEIVED(terminal)  — refunds open their own flow keyed
//	               by their own authentication code
//	Bank slip:     REGISTERED -> PAID -> SETTLED(terminal)
//	               REGISTERED -> CANCELLED(terminal)
//	               REGISTERED|PAID -> REFUSED(terminal)
//	Wire transfer: RECEIVED -> CLEARED(terminal) | REJECTED(terminal)
//	Bill payment:  RECEIVED -> CONFIRMED -> SETTLED(terminal)
//	               RECEIVED|CONFIRMED -> REFUSED(terminal)
func DefaultConfig() map[webhook.EventName]Transition {
	return map[webhook.EventName]Transition{
		webhook.EventPixCashInReceived: {},
		webhook.EventPixCashInCleared: {
			AllowedPrevious: []webhook.EventName{webhook.EventPixCashInReceived},
			Terminal:        true,
		},
		webhook.EventPixCashOutReceived: {},
		webhook.EventPixCashOutCleared: {
			AllowedPrevious: []webhook.EventName{webhook.EventPixCashOutReceived},
			Terminal:        true,
		},
		webhook.EventPixCashOutRejected: {
			AllowedPrevious: []webhook.EventName{webhook.EventPixCashOutReceived},
			Terminal:        true,
		},
		webhook.EventPixRefundReceived: {Terminal: true},

		webhook.EventBankSlipRegistered: {},
		webhook.EventBankSlipPaid: {
			AllowedPrevious: []webhook.EventName{webhook.EventBankSlipRegistered},
		},
		webhook.EventBankSlipSettled: {
			AllowedPrevious: []webhook.EventName{webhook.EventBankSlipPaid},
			Terminal:        true,
		},
		webhook.EventBankSlipCancelled: {
			AllowedPrevious: []webhook.EventName{webhook.EventBankSlipRegistered},
			Terminal:        true,
		},
		webhook.EventBankSlipRefused: {
			AllowedPrevious: []webhook.EventName{
				webhook.EventBankSlipRegistered,
				webhook.EventBankSlipPaid,
			},
			Terminal: true,
		},

		webhook.EventWireTransferReceived: {},
		webhook.EventWireTransferCleared: {
			AllowedPrevious: []webhook.EventName{webhook.EventWireTransferReceived},
			Terminal:        true,
		},
		webhook.EventWireTransferRejected: {
			AllowedPrevious: []webhook.EventName{webhook.EventWireTransferReceived},
			Terminal:        true,
		},

		webhook.EventBillPaymentReceived: {},
		webhook.EventBillPaymentConfirmed: {
			AllowedPrevious: []webhook.EventName{webhook.EventBillPaymentReceived},
		},
		webhook.EventBillPaymentSettled: {
			AllowedPrevious: []webhook.EventName{webhook.EventBillPaymentConfirmed},
			Terminal:        true,
		},
		webhook.EventBillPaymentRefused: {
			AllowedPrevious: []webhook.EventName{
				webhook.EventBillPaymentReceived,
				webhook.EventBillPaymentConfirmed,
			},
			Terminal: true,
		},
	}
}
