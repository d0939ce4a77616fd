package webhook

// Lifecycle event names per rail. The transition table lives in the
// statemachine package; these constants are the shared vocabulary between
// intake routes, handlers and the event log.
const (
	// PIX (instant transfer)
	EventPixCashInReceived  EventName = "PIX_CASH_IN_WAS_RECEIVED"
	EventPixCashInCleared   EventName = "PIX_CASH_IN_WAS_CLEARED"
	EventPixCashOutReceived EventName = "PIX_CASH_OUT_WAS_RECEIVED"
	EventPixCashOutCleared  EventName = "PIX_CASH_OUT_WAS_CLEARED"
	EventPixCashOutRejected EventName = "PIX_CASH_OUT_WAS_REJECTED"
	EventPixRefundReceived  EventName = "PIX_REFUND_WAS_RECEIVED"

	// Bank slip (boleto)
	EventBankSlipRegistered EventName = "BANK_SLIP_WAS_REGISTERED"
	EventBankSlipPaid       EventName = "BANK_SLIP_WAS_PAID"
	EventBankSlipSettled    EventName = "BANK_SLIP_WAS_SETTLED"
	EventBankSlipCancelled  EventName = "BANK_SLIP_WAS_CANCELLED"
	EventBankSlipRefused    EventName = "BANK_SLIP_PAYMENT_WAS_REFUSED"

	// Wire transfer (TED)
	EventWireTransferReceived EventName = "WIRE_TRANSFER_WAS_RECEIVED"
	EventWireTransferCleared  EventName = "WIRE_TRANSFER_WAS_CLEARED"
	EventWireTransferRejected EventName = "WIRE_TRANSFER_WAS_REJECTED"

	// Bill payment
	EventBillPaymentReceived  EventName = "BILL_PAYMENT_WAS_RECEIVED"
	EventBillPaymentConfirmed EventName = "BILL_PAYMENT_WAS_CONFIRMED"
	EventBillPaymentSettled   EventName = "BILL_PAYMENT_WAS_SETTLED"
	EventBillPaymentRefused   EventName = "BILL_PAYMENT_WAS_REFUSED"
)
