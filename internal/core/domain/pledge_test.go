package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPledgeRejectsNonPositive(t *testing.T) {
	for _, q := range []int64{0, -5} {
		_, err := NewPledge(uuid.New(), uuid.New(), q, time.Now())
		assert.ErrorIs(t, err, ErrInvalidPledge)
	}
}

func TestPledgeLifecycle(t *testing.T) {
	now := time.Now()
	p, err := NewPledge(uuid.New(), uuid.New(), 5, now)
	require.NoError(t, err)
	assert.Equal(t, PledgePending, p.Status)

	require.NoError(t, p.Commit(now))
	assert.Equal(t, PledgeCommitted, p.Status)
	require.NotNil(t, p.CommittedAt)

	assert.ErrorIs(t, p.Withdraw(now), ErrInvalidStateTransition)
	assert.ErrorIs(t, p.Commit(now), ErrInvalidStateTransition)
}

func TestFulfillmentTransitions(t *testing.T) {
	now := time.Now()
	f := NewFulfillment(Pledge{ID: uuid.New()}, now)

	assert.ErrorIs(t, f.TransitionTo(DeliveryDelivered, now), ErrInvalidStateTransition)
	require.NoError(t, f.TransitionTo(DeliveryInTransit, now))
	require.NoError(t, f.TransitionTo(DeliveryFailed, now))
	require.NoError(t, f.TransitionTo(DeliveryInTransit, now))
	require.NoError(t, f.TransitionTo(DeliveryDelivered, now))
	assert.ErrorIs(t, f.TransitionTo(DeliveryFailed, now), ErrInvalidStateTransition)
}

func TestNewInvoice(t *testing.T) {
	p := Pledge{ID: uuid.New(), CampaignID: uuid.New(), OrganizationID: uuid.New(), Quantity: 15}
	inv := NewInvoice(p, DiscountBracket{UnitPrice: decimal.RequireFromString("100.00")}, time.Now())

	assert.Equal(t, InvoiceSent, inv.Status)
	assert.Equal(t, InvoiceNumberFor(p.ID), inv.InvoiceNumber)
	assert.Len(t, inv.InvoiceNumber, len("INV-")+32)
	assert.Equal(t, "1500.00", inv.Amount.StringFixed(2))
	assert.False(t, inv.Status.IsSettled())
	assert.True(t, InvoiceCollectedViaAR.IsSettled())
}
