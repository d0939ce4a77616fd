package rail

import (
	"railhook/internal/webhook"
	"railhook/internal/webhook/ledger"
)

// ledgerStatuses projects each lifecycle event onto the canonical ledger
// status. Handlers never compute statuses.
var ledgerStatuses = map[webhook.EventName]ledger.Status{
	webhook.EventPixCashInReceived:  ledger.StatusProcessing,
	webhook.EventPixCashInCleared:   ledger.StatusDone,
	webhook.EventPixCashOutReceived: ledger.StatusProcessing,
	webhook.EventPixCashOutCleared:  ledger.StatusDone,
	webhook.EventPixCashOutRejected: ledger.StatusFailed,
	webhook.EventPixRefundReceived:  ledger.StatusRefunded,

	webhook.EventBankSlipRegistered: ledger.StatusCreated,
	webhook.EventBankSlipPaid:       ledger.StatusProcessing,
	webhook.EventBankSlipSettled:    ledger.StatusDone,
	webhook.EventBankSlipCancelled:  ledger.StatusCancelled,
	webhook.EventBankSlipRefused:    ledger.StatusFailed,

	webhook.EventWireTransferReceived: ledger.StatusProcessing,
	webhook.EventWireTransferCleared:  ledger.StatusDone,
	webhook.EventWireTransferRejected: ledger.StatusFailed,

	webhook.EventBillPaymentReceived:  ledger.StatusProcessing,
	webhook.EventBillPaymentConfirmed: ledger.StatusProcessing,
	webhook.EventBillPaymentSettled:   ledger.StatusDone,
	webhook.EventBillPaymentRefused:   ledger.StatusFailed,
}

// ProjectStatus returns the canonical ledger status for the event.
func ProjectStatus(event webhook.EventName) (ledger.Status, bool) {
	status, ok := ledgerStatuses[event]
	return status, ok
}
