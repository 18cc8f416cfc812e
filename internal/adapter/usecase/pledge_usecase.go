package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// PledgeUseCase aggregates pledges per campaign and accepts new pledges
// while a campaign is open.
type PledgeUseCase struct {
	campaigns port.CampaignRepository
	pledges   port.PledgeRepository
	tx        port.Transactor
	now       func() time.Time
}

// NewPledgeUseCase creates the pledge aggregator.
func NewPledgeUseCase(campaigns port.CampaignRepository, pledges port.PledgeRepository, tx port.Transactor) *PledgeUseCase {
	return &PledgeUseCase{campaigns: campaigns, pledges: pledges, tx: tx, now: utcNow}
}

// CalculateTotalCommittedPledges sums the campaign's committed quantities.
func (u *PledgeUseCase) CalculateTotalCommittedPledges(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	return u.pledges.SumQuantity(ctx, campaignID, domain.PledgeCommitted)
}

// FindAllByCampaignIDAndStatus lists the campaign's pledges in status.
func (u *PledgeUseCase) FindAllByCampaignIDAndStatus(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) ([]domain.Pledge, error) {
	return u.pledges.ListByCampaignAndStatus(ctx, campaignID, status)
}

// WithdrawAllPendingPledges drops every PENDING pledge of the campaign.
func (u *PledgeUseCase) WithdrawAllPendingPledges(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	return u.pledges.WithdrawAllPending(ctx, campaignID, u.now())
}

// CreatePledge records a PENDING pledge against an open campaign.
func (u *PledgeUseCase) CreatePledge(ctx context.Context, campaignID, organizationID uuid.UUID, quantity int64) (*domain.Pledge, error) {
	var out *domain.Pledge
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := u.openCampaign(ctx, campaignID); err != nil {
			return err
		}
		p, err := domain.NewPledge(campaignID, organizationID, quantity, u.now())
		if err != nil {
			return err
		}
		if err = u.pledges.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

// CommitPledge turns a PENDING pledge into a COMMITTED one. The campaign row
// is locked for the duration so a concurrent evaluation sees either all or
// none of the commitment.
func (u *PledgeUseCase) CommitPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error) {
	var out *domain.Pledge
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := u.pledges.Get(ctx, pledgeID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrPledgeNotFound
		}
		if _, err = u.openCampaign(ctx, p.CampaignID); err != nil {
			return err
		}
		if err = p.Commit(u.now()); err != nil {
			return err
		}
		if err = u.pledges.Update(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (u *PledgeUseCase) openCampaign(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	c, err := u.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCampaignNotFound
	}
	if !c.Status.AcceptsPledges() {
		return nil, domain.IllegalStatef("campaign %s does not accept pledges in status %s", c.ID, c.Status)
	}
	return c, nil
}
