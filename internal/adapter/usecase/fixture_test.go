package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/adapter/memory"
	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
	"groupbuy/internal/core/port/mocks"
)

// fixture wires every use case over one in-memory store.
type fixture struct {
	store       *memory.Store
	gateway     *mocks.MockPaymentGateway
	campaigns   *CampaignUseCase
	pledges     *PledgeUseCase
	invoices    *InvoiceUseCase
	payments    *PaymentUseCase
	fulfillment *FulfillmentUseCase
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithInvoices(t, nil)
}

// newFixtureWithInvoices lets a test put its own invoice repository in front
// of the store.
func newFixtureWithInvoices(t *testing.T, invoiceRepo port.InvoiceRepository) *fixture {
	t.Helper()
	store := memory.NewStore()
	if invoiceRepo == nil {
		invoiceRepo = store.Invoices()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := mocks.NewMockPaymentGateway(t)

	pledges := NewPledgeUseCase(store.Campaigns(), store.Pledges(), store)
	invoices := NewInvoiceUseCase(invoiceRepo, pledges, logger)
	payments := NewPaymentUseCase(store.Campaigns(), store.PaymentIntents(), invoiceRepo, pledges, gateway, store, logger)
	fulfillment := NewFulfillmentUseCase(store.Fulfillments(), pledges, store)
	campaigns := NewCampaignUseCase(CampaignDeps{
		Campaigns:   store.Campaigns(),
		Brackets:    NewBracketUseCase(store.Brackets(), pledges),
		Pledges:     pledges,
		Invoices:    invoices,
		Payments:    payments,
		Fulfillment: fulfillment,
		Tx:          store,
	}, 3, logger)

	return &fixture{
		store:       store,
		gateway:     gateway,
		campaigns:   campaigns,
		pledges:     pledges,
		invoices:    invoices,
		payments:    payments,
		fulfillment: fulfillment,
	}
}

func ptr(v int64) *int64 { return &v }

// twoTier is [10,50]@100.00 and [51,∞)@90.00.
func twoTier() []port.BracketReq {
	return []port.BracketReq{
		{MinQuantity: 10, MaxQuantity: ptr(50), UnitPrice: decimal.RequireFromString("100.00")},
		{MinQuantity: 51, UnitPrice: decimal.RequireFromString("90.00")},
	}
}

// activeCampaign creates and publishes a campaign running from yesterday to
// next week.
func (f *fixture) activeCampaign(t *testing.T) *domain.Campaign {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	c, err := f.campaigns.CreateCampaign(ctx, port.CreateCampaignReq{
		SupplierID: uuid.New(),
		Title:      "Copier paper",
		StartDate:  now.AddDate(0, 0, -1),
		EndDate:    now.AddDate(0, 0, 7),
		Brackets:   twoTier(),
	})
	require.NoError(t, err)
	c, err = f.campaigns.Publish(ctx, c.ID)
	require.NoError(t, err)
	return c
}

// pledge creates a pledge and commits it unless pending is set.
func (f *fixture) pledge(t *testing.T, campaignID uuid.UUID, qty int64, pending bool) *domain.Pledge {
	t.Helper()
	ctx := context.Background()
	p, err := f.pledges.CreatePledge(ctx, campaignID, uuid.New(), qty)
	require.NoError(t, err)
	if pending {
		return p
	}
	p, err = f.pledges.CommitPledge(ctx, p.ID)
	require.NoError(t, err)
	return p
}

// lockedCampaign returns a LOCKED campaign with the given committed pledges.
func (f *fixture) lockedCampaign(t *testing.T, quantities ...int64) (*domain.Campaign, []*domain.Pledge) {
	t.Helper()
	c := f.activeCampaign(t)
	var pledges []*domain.Pledge
	for _, q := range quantities {
		pledges = append(pledges, f.pledge(t, c.ID, q, false))
	}
	ev, err := f.campaigns.LockCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	return &ev.Campaign, pledges
}

func (f *fixture) intentFor(t *testing.T, campaignID, pledgeID uuid.UUID) domain.PaymentIntent {
	t.Helper()
	intents, err := f.store.PaymentIntents().ListByCampaign(context.Background(), campaignID)
	require.NoError(t, err)
	for _, pi := range intents {
		if pi.PledgeID == pledgeID {
			return pi
		}
	}
	require.FailNow(t, "no payment intent for pledge")
	return domain.PaymentIntent{}
}

func (f *fixture) gatewayAccepts() {
	f.gateway.EXPECT().Submit(mock.Anything, mock.Anything).Return(nil)
}
