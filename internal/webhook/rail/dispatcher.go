// Package rail implements the per-rail webhook handlers: instant transfer
// (PIX), bank slip, wire transfer and bill payment. Each handler consumes
// queued jobs, validates event order against the event log, mutates the
// ledger, projects the canonical status and records the attempt.
package rail

import (
	"context"
	"log/slog"

	"railhook/internal/platform/metrics"
	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
	"railhook/internal/webhook/ledger"
	"railhook/internal/webhook/statemachine"
)

// Deps are the shared collaborators every rail handler needs.
type Deps struct {
	Log       eventlog.Store
	Machine   *statemachine.Machine
	Ledger    ledger.Service
	Accounts  ledger.AccountLookup
	Forwarder *eventlog.Forwarder
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// applyFunc handles a single envelope of a claimed job.
type applyFunc func(ctx context.Context, job *webhook.Job, env webhook.Envelope) error

// Dispatcher resolves the event name into a typed handler function exactly
// once, at the consumer boundary. Business logic below this point never
// branches on event-name strings.
type Dispatcher struct {
	deps     Deps
	handlers map[webhook.EventName]applyFunc
}

// NewDispatcher registers every rail's handlers.
func NewDispatcher(deps Deps) *Dispatcher {
	d := &Dispatcher{
		deps:     deps,
		handlers: make(map[webhook.EventName]applyFunc),
	}
	NewPixHandler(deps).register(d.handlers)
	NewBankSlipHandler(deps).register(d.handlers)
	NewWireTransferHandler(deps).register(d.handlers)
	NewBillPaymentHandler(deps).register(d.handlers)
	return d
}

// Handle processes the job's envelopes strictly sequentially. The first
// envelope error fails the whole job; envelopes applied before the failure
// are recognized as duplicates on the retry and skipped.
func (d *Dispatcher) Handle(ctx context.Context, job *webhook.Job) error {
	if !job.ValidSource {
		// The sender's credential was not recognized. Mutating anything
		// here would let callers probe credential validity, so the job
		// is dropped while the intake already answered "received".
		d.deps.Logger.InfoContext(ctx, "discarding job from unrecognized source",
			"rail", job.Rail,
			"job_id", job.ID,
			"event", job.EventName,
		)
		return nil
	}

	for _, env := range job.Envelopes {
		apply, ok := d.handlers[env.EventName]
		if !ok {
			// Unknown events never block a flow; they are recorded
			// as informational rows and skipped.
			if err := d.recordUnknown(ctx, job, env); err != nil {
				return err
			}
			continue
		}
		if err := apply(ctx, job, env); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) recordUnknown(ctx context.Context, job *webhook.Job, env webhook.Envelope) error {
	authCode := fallbackAuthCode(env)
	entry := eventlog.Skipped(env, authCode, entityTypeFor(job.Rail),
		"no handler registered for event", job.ClientID)
	if err := d.deps.Log.Append(ctx, entry); err != nil {
		return err
	}
	if d.deps.Metrics != nil {
		d.deps.Metrics.EventsProcessed.
			WithLabelValues(string(job.Rail), string(env.EventName), "skipped").Inc()
	}
	d.deps.Logger.WarnContext(ctx, "no handler for event, recorded skip",
		"rail", job.Rail,
		"event", env.EventName,
		"authentication_code", authCode,
	)
	return nil
}

func entityTypeFor(rail webhook.Rail) string {
	switch rail {
	case webhook.RailPix:
		return "pix_transfer"
	case webhook.RailBankSlip:
		return "bank_slip"
	case webhook.RailWireTransfer:
		return "wire_transfer"
	case webhook.RailBillPayment:
		return "bill_payment"
	default:
		return string(rail)
	}
}
