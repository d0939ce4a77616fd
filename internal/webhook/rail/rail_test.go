package rail

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
	"railhook/internal/webhook/ledger/mocks"
	"railhook/internal/webhook/statemachine"
)

type fixture struct {
	store      *eventlog.InMemoryStore
	ledger     *mocks.MockService
	accounts   *mocks.MockAccountLookup
	dispatcher *Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		store:    eventlog.NewInMemoryStore(),
		ledger:   mocks.NewMockService(ctrl),
		accounts: mocks.NewMockAccountLookup(ctrl),
	}
	f.dispatcher = NewDispatcher(Deps{
		Log:       f.store,
		Machine:   statemachine.New(statemachine.DefaultConfig()),
		Ledger:    f.ledger,
		Accounts:  f.accounts,
		Forwarder: eventlog.NewForwarder(nil, logger),
		Logger:    logger,
		Metrics:   nil,
	})
	return f
}

func newEnvelope(event webhook.EventName, payload string) webhook.Envelope {
	return webhook.Envelope{
		EntityID:       uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		CorrelationID:  uuid.NewString(),
		EventName:      event,
		Timestamp:      time.Now().UTC(),
		Payload:        []byte(payload),
	}
}

func newJob(rail webhook.Rail, envelopes ...webhook.Envelope) *webhook.Job {
	return &webhook.Job{
		ID:          envelopes[0].IdempotencyKey,
		Rail:        rail,
		EventName:   envelopes[0].EventName,
		Envelopes:   envelopes,
		ClientID:    "client-a",
		ValidSource: true,
		Attempt:     1,
	}
}

// seedProcessed records a prior successful application so the validator sees
// it as the last processed event.
func seedProcessed(t *testing.T, store *eventlog.InMemoryStore, authCode, entityType string, event webhook.EventName) {
	t.Helper()
	entry := eventlog.Processed(newEnvelope(event, `{}`), authCode, entityType, nil, "client-a")
	if err := store.Append(context.Background(), entry); err != nil {
		t.Fatalf("seed event log: %v", err)
	}
}
