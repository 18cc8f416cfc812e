package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

var errDeclined = errors.New("card declined")

func (f *fixture) invoiceStatus(t *testing.T, pledgeID uuid.UUID) domain.InvoiceStatus {
	t.Helper()
	inv, err := f.store.Invoices().GetByPledge(context.Background(), pledgeID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.Status
}

// failAttempts drives id through n gateway failures.
func (f *fixture) failAttempts(t *testing.T, id uuid.UUID, n int) *domain.PaymentIntent {
	t.Helper()
	var pi *domain.PaymentIntent
	for i := 0; i < n; i++ {
		var err error
		pi, err = f.payments.ProcessPayment(context.Background(), id)
		require.ErrorIs(t, err, port.ErrPaymentSubmission)
	}
	return pi
}

func TestRetryLadderThenAR(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(errDeclined).Times(3)
	c, pledges := f.lockedCampaign(t, 12)
	id := f.intentFor(t, c.ID, pledges[0].ID).ID

	pi := f.failAttempts(t, id, 3)
	assert.Equal(t, domain.PaymentFailedRetry3, pi.Status)
	assert.Equal(t, 3, pi.RetryCount)
	assert.Equal(t, domain.InvoiceSent, f.invoiceStatus(t, pledges[0].ID))

	_, err := f.payments.RetryFailedPayment(ctx, id)
	require.ErrorIs(t, err, domain.ErrIllegalState)
	assert.Contains(t, err.Error(), "Maximum retries")

	pi, err = f.payments.MarkAsSentToAR(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSentToAR, pi.Status)
	assert.Equal(t, domain.InvoiceOverdue, f.invoiceStatus(t, pledges[0].ID))

	pi, err = f.payments.ResolveAR(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCollectedViaAR, pi.Status)
	assert.Equal(t, domain.InvoiceCollectedViaAR, f.invoiceStatus(t, pledges[0].ID))

	_, err = f.payments.UpdatePaymentStatus(ctx, id, domain.PaymentProcessing)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatusTransition)
}

func TestFailureAfterLastRetryEscalates(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(errDeclined).Times(4)
	c, pledges := f.lockedCampaign(t, 20)
	id := f.intentFor(t, c.ID, pledges[0].ID).ID

	pi := f.failAttempts(t, id, 4)
	assert.Equal(t, domain.PaymentSentToAR, pi.Status)
	assert.Equal(t, domain.MaxPaymentRetries, pi.RetryCount)
}

func TestMarkAsSentToARTooEarly(t *testing.T) {
	f := newFixture(t)
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(errDeclined).Once()
	c, pledges := f.lockedCampaign(t, 20)
	id := f.intentFor(t, c.ID, pledges[0].ID).ID
	f.failAttempts(t, id, 1)

	_, err := f.payments.MarkAsSentToAR(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrIllegalState)
}

func TestManualRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, pledges := f.lockedCampaign(t, 20)
	id := f.intentFor(t, c.ID, pledges[0].ID).ID

	_, err := f.payments.RetryFailedPayment(ctx, id)
	require.ErrorIs(t, err, domain.ErrIllegalState)
	assert.Contains(t, err.Error(), "Cannot retry")

	_, err = f.payments.UpdatePaymentStatus(ctx, id, domain.PaymentProcessing)
	require.NoError(t, err)
	pi, err := f.payments.RetryFailedPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailedRetry1, pi.Status)
	assert.Equal(t, 1, pi.RetryCount)

	pi, err = f.payments.RetryFailedPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailedRetry2, pi.Status)
}

func TestGatewaySuccessPaysInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var submitted domain.PaymentIntent
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).
		Run(func(_ context.Context, intent domain.PaymentIntent) { submitted = intent }).
		Return(nil).Once()
	c, pledges := f.lockedCampaign(t, 30)
	id := f.intentFor(t, c.ID, pledges[0].ID).ID

	pi, err := f.payments.ProcessPayment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentProcessing, pi.Status)
	assert.Equal(t, id, submitted.ID)
	assert.Equal(t, "3000.00", submitted.Amount.StringFixed(2))

	_, err = f.payments.ProcessPayment(ctx, id)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatusTransition)

	pi, err = f.payments.HandleGatewayResult(ctx, id, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, pi.Status)
	assert.Equal(t, domain.InvoicePaid, f.invoiceStatus(t, pledges[0].ID))

	_, err = f.payments.HandleGatewayResult(ctx, id, true)
	assert.ErrorIs(t, err, domain.ErrIllegalState)
}

func TestGeneratePaymentIntentsRequiresLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.activeCampaign(t)

	_, err := f.payments.GeneratePaymentIntents(ctx, c.ID, domain.DiscountBracket{})
	assert.ErrorIs(t, err, domain.ErrIllegalState)

	_, err = f.payments.GetPaymentIntent(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPaymentIntentNotFound)
}

func TestGeneratePaymentIntentsIsIdempotent(t *testing.T) {
	f := newFixture(t)
	c, _ := f.lockedCampaign(t, 10, 5)
	table, err := f.campaigns.Brackets.GetAllBrackets(context.Background(), c.ID)
	require.NoError(t, err)

	created, err := f.payments.GeneratePaymentIntents(context.Background(), c.ID, table[0])
	require.NoError(t, err)
	assert.Zero(t, created)
}
