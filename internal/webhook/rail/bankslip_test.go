package rail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"railhook/internal/webhook"
	"railhook/internal/webhook/ledger"
	"railhook/pkg/platform/sentinel"
)

func TestBankSlipRegistered(t *testing.T) {
	t.Run("confirms the issued slip", func(t *testing.T) {
		f := newFixture(t)

		env := newEnvelope(webhook.EventBankSlipRegistered,
			`{"authenticationCode":"ac-slip-1","amount":10000}`)
		job := newJob(webhook.RailBankSlip, env)

		f.ledger.EXPECT().
			FindByAuthenticationCode(gomock.Any(), "ac-slip-1").
			Return(&ledger.Record{ID: "rec-s1", AuthenticationCode: "ac-slip-1"}, nil)
		f.ledger.EXPECT().
			UpdateStatus(gomock.Any(), "ac-slip-1", ledger.StatusCreated).
			Return(nil)

		require.NoError(t, f.dispatcher.Handle(context.Background(), job))

		entries := f.store.All()
		require.Len(t, entries, 1)
		assert.True(t, entries[0].WasProcessed)
		assert.Equal(t, "bank_slip", entries[0].EntityType)
	})

	t.Run("unknown authentication code is retryable, not a permanent failure", func(t *testing.T) {
		// The provider's REGISTERED confirmation can outrun the issuance
		// transaction commit; the retry resolves once it lands.
		f := newFixture(t)

		env := newEnvelope(webhook.EventBankSlipRegistered,
			`{"authenticationCode":"ac-slip-2"}`)
		job := newJob(webhook.RailBankSlip, env)

		f.ledger.EXPECT().
			FindByAuthenticationCode(gomock.Any(), "ac-slip-2").
			Return(nil, sentinel.ErrNotFound)

		err := f.dispatcher.Handle(context.Background(), job)
		require.ErrorIs(t, err, webhook.ErrEntityNotFound)
		assert.True(t, webhook.IsRetryable(err))
		assert.Empty(t, f.store.All(), "no row until the attempt concludes")
	})

	t.Run("resolves by reference number when payload lacks the code", func(t *testing.T) {
		f := newFixture(t)

		env := newEnvelope(webhook.EventBankSlipRegistered,
			`{"referenceNumber":"ref-777"}`)
		job := newJob(webhook.RailBankSlip, env)

		f.ledger.EXPECT().
			FindByReference(gomock.Any(), "ref-777").
			Return(&ledger.Record{ID: "rec-s3", AuthenticationCode: "ac-slip-3"}, nil)
		f.ledger.EXPECT().
			UpdateStatus(gomock.Any(), "ac-slip-3", ledger.StatusCreated).
			Return(nil)

		require.NoError(t, f.dispatcher.Handle(context.Background(), job))

		entries := f.store.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "ac-slip-3", entries[0].AuthenticationCode,
			"the log is keyed by the resolved code, not the reference")
	})

	t.Run("neither code nor reference is a permanent error", func(t *testing.T) {
		f := newFixture(t)

		env := newEnvelope(webhook.EventBankSlipRegistered, `{}`)
		job := newJob(webhook.RailBankSlip, env)

		err := f.dispatcher.Handle(context.Background(), job)
		require.Error(t, err)
		assert.False(t, webhook.IsRetryable(err))
	})
}

func TestBankSlipLifecycle(t *testing.T) {
	t.Run("paid then settled", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		seedProcessed(t, f.store, "ac-slip-4", "bank_slip", webhook.EventBankSlipRegistered)

		record := &ledger.Record{ID: "rec-s4", AuthenticationCode: "ac-slip-4"}

		paid := newJob(webhook.RailBankSlip,
			newEnvelope(webhook.EventBankSlipPaid, `{"authenticationCode":"ac-slip-4","paidAmount":10000}`))
		f.ledger.EXPECT().FindByAuthenticationCode(gomock.Any(), "ac-slip-4").Return(record, nil)
		f.ledger.EXPECT().
			UpdateFromWebhook(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ledger.UpdateParams) error {
				assert.Equal(t, ledger.StatusProcessing, params.Status)
				return nil
			})
		require.NoError(t, f.dispatcher.Handle(ctx, paid))

		settled := newJob(webhook.RailBankSlip,
			newEnvelope(webhook.EventBankSlipSettled, `{"authenticationCode":"ac-slip-4"}`))
		f.ledger.EXPECT().FindByAuthenticationCode(gomock.Any(), "ac-slip-4").Return(record, nil)
		f.ledger.EXPECT().
			UpdateFromWebhook(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ledger.UpdateParams) error {
				assert.Equal(t, ledger.StatusDone, params.Status)
				return nil
			})
		require.NoError(t, f.dispatcher.Handle(ctx, settled))

		last, err := f.store.LastProcessedEvent(ctx, "ac-slip-4")
		require.NoError(t, err)
		assert.Equal(t, webhook.EventBankSlipSettled, last)
	})

	t.Run("settled may not skip paid", func(t *testing.T) {
		f := newFixture(t)
		seedProcessed(t, f.store, "ac-slip-5", "bank_slip", webhook.EventBankSlipRegistered)

		settled := newJob(webhook.RailBankSlip,
			newEnvelope(webhook.EventBankSlipSettled, `{"authenticationCode":"ac-slip-5"}`))
		f.ledger.EXPECT().
			FindByAuthenticationCode(gomock.Any(), "ac-slip-5").
			Return(&ledger.Record{ID: "rec-s5", AuthenticationCode: "ac-slip-5"}, nil)

		err := f.dispatcher.Handle(context.Background(), settled)
		require.ErrorIs(t, err, webhook.ErrOutOfSequence)
	})

	t.Run("cancelled after paid is rejected", func(t *testing.T) {
		f := newFixture(t)
		seedProcessed(t, f.store, "ac-slip-6", "bank_slip", webhook.EventBankSlipPaid)

		cancelled := newJob(webhook.RailBankSlip,
			newEnvelope(webhook.EventBankSlipCancelled, `{"authenticationCode":"ac-slip-6"}`))
		f.ledger.EXPECT().
			FindByAuthenticationCode(gomock.Any(), "ac-slip-6").
			Return(&ledger.Record{ID: "rec-s6", AuthenticationCode: "ac-slip-6"}, nil)

		err := f.dispatcher.Handle(context.Background(), cancelled)
		require.ErrorIs(t, err, webhook.ErrOutOfSequence)
	})

	t.Run("payment refused after paid", func(t *testing.T) {
		f := newFixture(t)
		seedProcessed(t, f.store, "ac-slip-7", "bank_slip", webhook.EventBankSlipPaid)

		refused := newJob(webhook.RailBankSlip,
			newEnvelope(webhook.EventBankSlipRefused, `{"authenticationCode":"ac-slip-7"}`))
		f.ledger.EXPECT().
			FindByAuthenticationCode(gomock.Any(), "ac-slip-7").
			Return(&ledger.Record{ID: "rec-s7", AuthenticationCode: "ac-slip-7"}, nil)
		f.ledger.EXPECT().
			UpdateFromWebhook(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ledger.UpdateParams) error {
				assert.Equal(t, ledger.StatusFailed, params.Status)
				return nil
			})

		require.NoError(t, f.dispatcher.Handle(context.Background(), refused))
	})
}
