package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
	"groupbuy/internal/core/port/mocks"
)

func TestCreateCampaignRejectsBadBrackets(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	_, err := f.campaigns.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Title:     "Gloves",
		StartDate: now,
		EndDate:   now.AddDate(0, 0, 1),
		Brackets: []port.BracketReq{
			{MinQuantity: 10, MaxQuantity: ptr(20), UnitPrice: decimal.NewFromInt(5)},
			{MinQuantity: 25, UnitPrice: decimal.NewFromInt(4)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidBrackets)

	_, err = f.campaigns.CreateCampaign(context.Background(), port.CreateCampaignReq{
		Title:     " ",
		StartDate: now,
		EndDate:   now,
		Brackets:  twoTier(),
	})
	assert.ErrorIs(t, err, domain.ErrCampaignValidation)
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	future, err := f.campaigns.CreateCampaign(ctx, port.CreateCampaignReq{
		Title:     "Toner",
		StartDate: now.AddDate(0, 0, 2),
		EndDate:   now.AddDate(0, 0, 9),
		Brackets:  twoTier(),
	})
	require.NoError(t, err)
	_, err = f.campaigns.Publish(ctx, future.ID)
	require.ErrorIs(t, err, domain.ErrCampaignValidation)
	assert.Contains(t, err.Error(), "start date")

	c := f.activeCampaign(t)
	assert.Equal(t, domain.CampaignActive, c.Status)

	_, err = f.campaigns.Publish(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	_, err = f.campaigns.Publish(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestEvaluateCancelsBelowMinimum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	f.pledge(t, c.ID, 5, false)
	f.pledge(t, c.ID, 3, false)
	pending := f.pledge(t, c.ID, 20, true)

	_, err := f.campaigns.StartGracePeriod(ctx, c.ID)
	require.NoError(t, err)

	ev, err := f.campaigns.EvaluateCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, port.OutcomeCancelled, ev.Outcome)
	assert.Equal(t, domain.CampaignCancelled, ev.Campaign.Status)
	assert.Equal(t, int64(8), ev.TotalCommitted)
	assert.Nil(t, ev.WinningBracket)
	assert.Equal(t, int64(1), ev.PledgesWithdrawn)

	invoices, err := f.invoices.FindAllByCampaignID(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	p, err := f.store.Pledges().Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeWithdrawn, p.Status)
}

func TestEvaluateLocksAndBills(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	a := f.pledge(t, c.ID, 10, false)
	b := f.pledge(t, c.ID, 5, false)

	_, err := f.campaigns.StartGracePeriod(ctx, c.ID)
	require.NoError(t, err)
	ev, err := f.campaigns.EvaluateCampaign(ctx, c.ID)
	require.NoError(t, err)

	assert.Equal(t, port.OutcomeLocked, ev.Outcome)
	assert.Equal(t, domain.CampaignLocked, ev.Campaign.Status)
	require.NotNil(t, ev.WinningBracket)
	assert.Equal(t, 0, ev.WinningBracket.BracketOrder)
	assert.Equal(t, 2, ev.InvoicesCreated)
	assert.Equal(t, 2, ev.IntentsCreated)

	invoices, err := f.invoices.FindAllByCampaignID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	for _, inv := range invoices {
		assert.True(t, inv.UnitPrice.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, domain.InvoiceSent, inv.Status)
	}

	for _, p := range []*domain.Pledge{a, b} {
		pi := f.intentFor(t, c.ID, p.ID)
		assert.Equal(t, domain.PaymentPending, pi.Status)
		assert.Zero(t, pi.RetryCount)
		assert.True(t, pi.Amount.Equal(decimal.NewFromInt(100*p.Quantity)))
	}

	fulfillments, err := f.fulfillment.FindAllByCampaignID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, fulfillments, 2)

	_, err = f.campaigns.CancelCampaign(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestEvaluateRequiresGracePeriod(t *testing.T) {
	f := newFixture(t)
	c := f.activeCampaign(t)

	_, err := f.campaigns.EvaluateCampaign(context.Background(), c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestLockBelowMinimumChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	f.pledge(t, c.ID, 8, false)
	pending := f.pledge(t, c.ID, 4, true)

	_, err := f.campaigns.LockCampaign(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrCampaignValidation)
	assert.Contains(t, err.Error(), "minimum quantity")

	got, err := f.campaigns.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignActive, got.Status)

	p, err := f.store.Pledges().Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgePending, p.Status)
}

func TestInvoiceFailureRollsBackLock(t *testing.T) {
	ctx := context.Background()
	invoices := mocks.NewMockInvoiceRepository(t)
	f := newFixtureWithInvoices(t, invoices)
	inner := f.store.Invoices()

	boom := errors.New("disk full")
	calls := 0
	failing := true
	invoices.EXPECT().CreateIfAbsent(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, inv *domain.Invoice) (bool, error) {
			calls++
			if failing && calls == 2 {
				return false, boom
			}
			return inner.CreateIfAbsent(ctx, inv)
		})
	invoices.EXPECT().ListByCampaign(mock.Anything, mock.Anything).RunAndReturn(inner.ListByCampaign).Maybe()

	c := f.activeCampaign(t)
	for _, q := range []int64{4, 4, 4} {
		f.pledge(t, c.ID, q, false)
	}
	_, err := f.campaigns.StartGracePeriod(ctx, c.ID)
	require.NoError(t, err)

	_, err = f.campaigns.EvaluateCampaign(ctx, c.ID)
	require.ErrorIs(t, err, boom)

	got, err := f.campaigns.GetCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignGracePeriod, got.Status)
	list, err := inner.ListByCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	failing = false
	ev, err := f.campaigns.EvaluateCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, ev.InvoicesCreated)

	// a second run over the same pledges bills nobody twice
	created, err := f.invoices.GenerateInvoicesForCampaign(ctx, c.ID, *ev.WinningBracket)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestCancelWithdrawsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	committed := f.pledge(t, c.ID, 12, false)
	pending := f.pledge(t, c.ID, 6, true)

	got, err := f.campaigns.CancelCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignCancelled, got.Status)

	p, err := f.store.Pledges().Get(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeWithdrawn, p.Status)
	p, err = f.store.Pledges().Get(ctx, committed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PledgeCommitted, p.Status)

	for _, op := range []func(context.Context, uuid.UUID) (*domain.Campaign, error){
		f.campaigns.Publish, f.campaigns.StartGracePeriod, f.campaigns.CompleteCampaign, f.campaigns.CancelCampaign,
	} {
		_, err = op(ctx, c.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	}
}

func TestCompleteGatedOnPaymentAndDelivery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gatewayAccepts()
	c, pledges := f.lockedCampaign(t, 15)

	_, err := f.campaigns.CompleteCampaign(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrCampaignValidation)
	assert.Contains(t, err.Error(), "invoices not paid")

	pi := f.intentFor(t, c.ID, pledges[0].ID)
	_, err = f.payments.ProcessPayment(ctx, pi.ID)
	require.NoError(t, err)
	_, err = f.payments.HandleGatewayResult(ctx, pi.ID, true)
	require.NoError(t, err)

	_, err = f.campaigns.CompleteCampaign(ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrCampaignValidation)
	assert.Contains(t, err.Error(), "fulfillment")

	rows, err := f.fulfillment.FindAllByCampaignID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	for _, s := range []domain.DeliveryStatus{domain.DeliveryInTransit, domain.DeliveryDelivered} {
		_, err = f.fulfillment.UpdateDeliveryStatus(ctx, rows[0].ID, s)
		require.NoError(t, err)
	}

	done, err := f.campaigns.CompleteCampaign(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CampaignDone, done.Status)
	assert.True(t, done.Status.IsTerminal())
}

func TestConcurrentEvaluationLocksOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)
	for i := 0; i < 5; i++ {
		f.pledge(t, c.ID, 3, false)
	}
	_, err := f.campaigns.StartGracePeriod(ctx, c.ID)
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.campaigns.EvaluateCampaign(ctx, c.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	invoices, err := f.invoices.FindAllByCampaignID(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, invoices, 5)
}
