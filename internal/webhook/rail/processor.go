package rail

import (
	"context"
	"encoding/json"

	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
)

// processor carries the per-rail constants and the shared handler steps.
type processor struct {
	deps       Deps
	rail       webhook.Rail
	entityType string
}

func newProcessor(deps Deps, rail webhook.Rail) processor {
	return processor{deps: deps, rail: rail, entityType: entityTypeFor(rail)}
}

// alreadyApplied recognizes an envelope that succeeded on an earlier attempt
// of the same job. Re-applying it would be rejected as out-of-sequence and
// trap the whole batch in retries.
func (p *processor) alreadyApplied(ctx context.Context, authCode string, event webhook.EventName) (bool, error) {
	applied, err := p.deps.Log.WasEventProcessed(ctx, authCode, event)
	if err != nil {
		return false, err
	}
	if applied {
		p.deps.Logger.DebugContext(ctx, "envelope already applied, skipping",
			"rail", p.rail,
			"authentication_code", authCode,
			"event", event,
		)
		if p.deps.Metrics != nil {
			p.deps.Metrics.EventsProcessed.
				WithLabelValues(string(p.rail), string(event), "duplicate").Inc()
		}
	}
	return applied, nil
}

// validate consults the event log for the last processed event and runs the
// state machine. A rejection is the retryable out-of-sequence condition: the
// prerequisite event usually just has not arrived yet.
func (p *processor) validate(ctx context.Context, authCode string, event webhook.EventName) error {
	last, err := p.deps.Log.LastProcessedEvent(ctx, authCode)
	if err != nil {
		return err
	}
	decision := p.deps.Machine.CanProcess(last, event)
	if !decision.Allowed {
		return webhook.OutOfSequence(decision.Reason)
	}
	if decision.Reason != "" {
		p.deps.Logger.InfoContext(ctx, "event allowed by default",
			"rail", p.rail,
			"authentication_code", authCode,
			"reason", decision.Reason,
		)
	}
	return nil
}

// conclude writes the WasProcessed=true row that makes the mutation part of
// the authoritative history, then forwards it to the audit topic.
func (p *processor) conclude(ctx context.Context, job *webhook.Job, env webhook.Envelope, authCode string, entityID *string) error {
	entry := eventlog.Processed(env, authCode, p.entityType, entityID, job.ClientID)
	if err := p.deps.Log.Append(ctx, entry); err != nil {
		return err
	}
	p.deps.Forwarder.Forward(ctx, entry)
	if p.deps.Metrics != nil {
		p.deps.Metrics.EventsProcessed.
			WithLabelValues(string(p.rail), string(env.EventName), "processed").Inc()
	}
	return nil
}

// fallbackAuthCode extracts the authentication code from the payload when
// present, falling back to the envelope entity id. Cleared and refund
// notifications frequently omit the payload field; the entity id is the
// provider-side alias recorded at creation.
func fallbackAuthCode(env webhook.Envelope) string {
	var probe struct {
		AuthenticationCode string `json:"authenticationCode"`
	}
	if err := json.Unmarshal(env.Payload, &probe); err == nil && probe.AuthenticationCode != "" {
		return probe.AuthenticationCode
	}
	return env.EntityID
}
