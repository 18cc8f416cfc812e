package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTransitions(t *testing.T) {
	legal := [][2]PaymentStatus{
		{PaymentPending, PaymentProcessing},
		{PaymentProcessing, PaymentSucceeded},
		{PaymentProcessing, PaymentFailedRetry1},
		{PaymentFailedRetry1, PaymentProcessing},
		{PaymentFailedRetry1, PaymentFailedRetry2},
		{PaymentFailedRetry2, PaymentProcessing},
		{PaymentFailedRetry2, PaymentFailedRetry3},
		{PaymentFailedRetry3, PaymentProcessing},
		{PaymentFailedRetry3, PaymentSentToAR},
		{PaymentSentToAR, PaymentCollectedViaAR},
		{PaymentSentToAR, PaymentWrittenOff},
	}
	for _, e := range legal {
		assert.True(t, e[0].CanTransitionTo(e[1]), "%s -> %s", e[0], e[1])
	}
	assert.False(t, PaymentPending.CanTransitionTo(PaymentSucceeded))
	assert.False(t, PaymentFailedRetry1.CanTransitionTo(PaymentSentToAR))

	for _, s := range []PaymentStatus{PaymentSucceeded, PaymentCollectedViaAR, PaymentWrittenOff} {
		assert.True(t, s.IsTerminal(), s)
		pi := &PaymentIntent{Status: s}
		assert.ErrorIs(t, pi.TransitionTo(PaymentProcessing, time.Now()), ErrInvalidPaymentStatusTransition)
	}
}

func TestRetryLadder(t *testing.T) {
	now := time.Now()
	pi := &PaymentIntent{ID: uuid.New(), Status: PaymentProcessing}

	for i := 1; i <= MaxPaymentRetries; i++ {
		require.NoError(t, pi.Retry(now))
		want, _ := FailedRetryStatus(i)
		assert.Equal(t, want, pi.Status)
		assert.Equal(t, i, pi.RetryCount)
	}

	err := pi.Retry(now)
	require.ErrorIs(t, err, ErrIllegalState)
	assert.Contains(t, err.Error(), "Maximum retries")
	assert.Equal(t, MaxPaymentRetries, pi.RetryCount)
}

func TestRetryRejectsWrongStatus(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentSucceeded, PaymentFailedRetry3, PaymentSentToAR} {
		pi := &PaymentIntent{Status: s, RetryCount: 1}
		err := pi.Retry(time.Now())
		require.ErrorIs(t, err, ErrIllegalState, s)
		assert.Contains(t, err.Error(), "Cannot retry")
		assert.Equal(t, 1, pi.RetryCount)
	}
}

func TestSendToAR(t *testing.T) {
	now := time.Now()

	pi := &PaymentIntent{Status: PaymentFailedRetry3, RetryCount: 3}
	require.NoError(t, pi.SendToAR(now))
	assert.Equal(t, PaymentSentToAR, pi.Status)

	early := &PaymentIntent{Status: PaymentFailedRetry3, RetryCount: 2}
	assert.ErrorIs(t, early.SendToAR(now), ErrIllegalState)

	wrong := &PaymentIntent{Status: PaymentProcessing, RetryCount: 3}
	assert.ErrorIs(t, wrong.SendToAR(now), ErrIllegalState)
}

func TestExhaustRetries(t *testing.T) {
	pi := &PaymentIntent{Status: PaymentProcessing, RetryCount: 3}
	require.NoError(t, pi.ExhaustRetries(time.Now()))
	assert.Equal(t, PaymentFailedRetry3, pi.Status)

	fresh := &PaymentIntent{Status: PaymentProcessing, RetryCount: 1}
	assert.ErrorIs(t, fresh.ExhaustRetries(time.Now()), ErrIllegalState)
}

func TestCalculatePaymentAmount(t *testing.T) {
	pledge := Pledge{Quantity: 15}
	bracket := DiscountBracket{UnitPrice: decimal.RequireFromString("92.50")}

	amount := CalculatePaymentAmount(pledge, bracket)
	assert.True(t, amount.Equal(decimal.RequireFromString("1387.50")))
	assert.Equal(t, int32(-2), amount.Exponent())
}

func TestPaymentStatusInvoiceStatus(t *testing.T) {
	got, ok := PaymentSucceeded.InvoiceStatus()
	require.True(t, ok)
	assert.Equal(t, InvoicePaid, got)

	got, ok = PaymentSentToAR.InvoiceStatus()
	require.True(t, ok)
	assert.Equal(t, InvoiceOverdue, got)

	_, ok = PaymentFailedRetry2.InvoiceStatus()
	assert.False(t, ok)
}
