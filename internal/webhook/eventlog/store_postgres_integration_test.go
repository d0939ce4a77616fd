//go:build integration

package eventlog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"railhook/internal/webhook"
	"railhook/internal/webhook/eventlog"
	"railhook/pkg/platform/tx"
	"railhook/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *eventlog.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../../migrations")
	s.store = eventlog.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.postgres.DB.Exec("TRUNCATE webhook_event_log")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newEnvelope(event webhook.EventName) webhook.Envelope {
	return webhook.Envelope{
		EntityID:       uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		CorrelationID:  uuid.NewString(),
		EventName:      event,
		Timestamp:      time.Now().UTC(),
		Payload:        []byte(`{"amount":2500,"currency":"BRL"}`),
	}
}

func (s *PostgresStoreSuite) TestAppendAndLastProcessedEvent() {
	ctx := context.Background()
	authCode := uuid.NewString()

	last, err := s.store.LastProcessedEvent(ctx, authCode)
	s.Require().NoError(err)
	s.Empty(last)

	first := eventlog.Processed(s.newEnvelope(webhook.EventPixCashInReceived), authCode, "pix_transfer", nil, "client-a")
	first.CreatedAt = time.Now().Add(-time.Minute)
	s.Require().NoError(s.store.Append(ctx, first))

	entityID := uuid.NewString()
	second := eventlog.Processed(s.newEnvelope(webhook.EventPixCashInCleared), authCode, "pix_transfer", &entityID, "client-a")
	s.Require().NoError(s.store.Append(ctx, second))

	skipped := eventlog.Skipped(s.newEnvelope(webhook.EventPixCashInCleared), authCode, "pix_transfer", "last processed event PIX_CASH_IN_WAS_CLEARED is terminal", "client-a")
	s.Require().NoError(s.store.Append(ctx, skipped))

	last, err = s.store.LastProcessedEvent(ctx, authCode)
	s.Require().NoError(err)
	s.Equal(webhook.EventPixCashInCleared, last)
}

func (s *PostgresStoreSuite) TestWasEventProcessed() {
	ctx := context.Background()
	authCode := uuid.NewString()

	s.Require().NoError(s.store.Append(ctx,
		eventlog.Processed(s.newEnvelope(webhook.EventBankSlipRegistered), authCode, "bank_slip", nil, "client-a")))

	applied, err := s.store.WasEventProcessed(ctx, authCode, webhook.EventBankSlipRegistered)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = s.store.WasEventProcessed(ctx, authCode, webhook.EventBankSlipPaid)
	s.Require().NoError(err)
	s.False(applied)
}

func (s *PostgresStoreSuite) TestFindByClient() {
	ctx := context.Background()
	authA := uuid.NewString()
	authB := uuid.NewString()

	first := eventlog.Processed(s.newEnvelope(webhook.EventWireTransferReceived), authA, "wire_transfer", nil, "client-a")
	first.CreatedAt = time.Now().Add(-time.Minute)
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx,
		eventlog.Processed(s.newEnvelope(webhook.EventWireTransferCleared), authA, "wire_transfer", nil, "client-a")))
	s.Require().NoError(s.store.Append(ctx,
		eventlog.Processed(s.newEnvelope(webhook.EventBillPaymentReceived), authB, "bill_payment", nil, "client-b")))

	entries, err := s.store.FindByClient(ctx, "client-a", "")
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(webhook.EventWireTransferCleared, entries[0].EventName)

	entries, err = s.store.FindByClient(ctx, "client-a", authB)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *PostgresStoreSuite) TestPurgeOlderThan() {
	ctx := context.Background()
	now := time.Now()
	cutoff := now.AddDate(0, 0, -60)

	old := eventlog.Processed(s.newEnvelope(webhook.EventPixCashInReceived), uuid.NewString(), "pix_transfer", nil, "client-a")
	old.CreatedAt = now.AddDate(0, 0, -61)
	s.Require().NoError(s.store.Append(ctx, old))

	// Exactly at the horizon: the purge is strictly older-than, so this row
	// survives.
	boundary := eventlog.Processed(s.newEnvelope(webhook.EventPixCashInReceived), uuid.NewString(), "pix_transfer", nil, "client-a")
	boundary.CreatedAt = cutoff
	s.Require().NoError(s.store.Append(ctx, boundary))

	fresh := eventlog.Processed(s.newEnvelope(webhook.EventPixCashInReceived), uuid.NewString(), "pix_transfer", nil, "client-a")
	fresh.CreatedAt = now.AddDate(0, 0, -59)
	s.Require().NoError(s.store.Append(ctx, fresh))

	deleted, err := s.store.PurgeOlderThan(ctx, cutoff)
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	remaining, err := s.store.FindByClient(ctx, "client-a", "")
	s.Require().NoError(err)
	s.Len(remaining, 2)

	deleted, err = s.store.PurgeOlderThan(ctx, cutoff)
	s.Require().NoError(err)
	s.Zero(deleted)
}

func (s *PostgresStoreSuite) TestAppendRidesAlongCallerTransaction() {
	ctx := context.Background()
	authCode := uuid.NewString()
	entry := eventlog.Processed(s.newEnvelope(webhook.EventBillPaymentConfirmed), authCode, "bill_payment", nil, "client-a")

	// A failing caller transaction takes the append down with it.
	err := tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		if err := s.store.Append(ctx, entry); err != nil {
			return err
		}
		return errors.New("caller write failed")
	})
	s.Require().Error(err)

	applied, err := s.store.WasEventProcessed(ctx, authCode, webhook.EventBillPaymentConfirmed)
	s.Require().NoError(err)
	s.False(applied)

	// A committed one makes the append durable.
	s.Require().NoError(tx.Run(ctx, s.postgres.DB, func(ctx context.Context) error {
		return s.store.Append(ctx, entry)
	}))

	applied, err = s.store.WasEventProcessed(ctx, authCode, webhook.EventBillPaymentConfirmed)
	s.Require().NoError(err)
	s.True(applied)
}
