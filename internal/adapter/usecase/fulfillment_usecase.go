package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// FulfillmentUseCase tracks delivery per committed pledge and gates campaign
// completion on it.
type FulfillmentUseCase struct {
	fulfillments port.FulfillmentRepository
	pledges      port.PledgeReader
	tx           port.Transactor
	now          func() time.Time
}

// NewFulfillmentUseCase creates the fulfillment gate.
func NewFulfillmentUseCase(fulfillments port.FulfillmentRepository, pledges port.PledgeReader, tx port.Transactor) *FulfillmentUseCase {
	return &FulfillmentUseCase{fulfillments: fulfillments, pledges: pledges, tx: tx, now: utcNow}
}

// FindAllByCampaignID lists the campaign's fulfillment rows.
func (u *FulfillmentUseCase) FindAllByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]domain.CampaignFulfillment, error) {
	return u.fulfillments.ListByCampaign(ctx, campaignID)
}

// GenerateForCampaign opens a PENDING fulfillment for every committed pledge
// that has none yet.
func (u *FulfillmentUseCase) GenerateForCampaign(ctx context.Context, campaignID uuid.UUID) (int, error) {
	pledges, err := u.pledges.FindAllByCampaignIDAndStatus(ctx, campaignID, domain.PledgeCommitted)
	if err != nil {
		return 0, err
	}
	now := u.now()
	created := 0
	for _, p := range pledges {
		inserted, err := u.fulfillments.CreateIfAbsent(ctx, domain.NewFulfillment(p, now))
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

// CheckDelivered is read-only. A pledge without a fulfillment row counts as
// undelivered.
func (u *FulfillmentUseCase) CheckDelivered(ctx context.Context, campaignID uuid.UUID, pledges []domain.Pledge) error {
	rows, err := u.fulfillments.ListByCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	byPledge := make(map[uuid.UUID]domain.DeliveryStatus, len(rows))
	for _, f := range rows {
		byPledge[f.PledgeID] = f.DeliveryStatus
	}
	undelivered := 0
	for _, p := range pledges {
		if byPledge[p.ID] != domain.DeliveryDelivered {
			undelivered++
		}
	}
	if undelivered > 0 {
		return domain.Validationf("fulfillment incomplete: %d of %d pledges not delivered", undelivered, len(pledges))
	}
	return nil
}

// UpdateDeliveryStatus moves a fulfillment row along the delivery graph.
func (u *FulfillmentUseCase) UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) (*domain.CampaignFulfillment, error) {
	var out *domain.CampaignFulfillment
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		f, err := u.fulfillments.Get(ctx, id)
		if err != nil {
			return err
		}
		if f == nil {
			return domain.ErrFulfillmentNotFound
		}
		if err = f.TransitionTo(status, u.now()); err != nil {
			return err
		}
		if err = u.fulfillments.Update(ctx, f); err != nil {
			return err
		}
		out = f
		return nil
	})
	return out, err
}
