package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// PaymentIntentGenerator is the part of the payment workflow the state
// machine invokes at lock time.
type PaymentIntentGenerator interface {
	GeneratePaymentIntents(ctx context.Context, campaignID uuid.UUID, bracket domain.DiscountBracket) (int, error)
}

// CampaignDeps groups the collaborators of CampaignUseCase.
type CampaignDeps struct {
	Campaigns   port.CampaignRepository
	Brackets    port.BracketUseCase
	Pledges     port.PledgeReader
	Invoices    port.InvoiceGenerator
	Payments    PaymentIntentGenerator
	Fulfillment port.FulfillmentUseCase
	Tx          port.Transactor
}

// CampaignUseCase owns campaign status and enforces the lifecycle graph.
// Each operation runs load, validate, mutate and persist in one
// transaction, and every validation happens before the first write.
type CampaignUseCase struct {
	CampaignDeps

	gracePeriodDays int
	logger          *slog.Logger
	now             func() time.Time
}

// NewCampaignUseCase creates the state machine. gracePeriodDays is added to
// a campaign's end date when it enters GRACE_PERIOD.
func NewCampaignUseCase(deps CampaignDeps, gracePeriodDays int, logger *slog.Logger) *CampaignUseCase {
	return &CampaignUseCase{
		CampaignDeps:    deps,
		gracePeriodDays: gracePeriodDays,
		logger:          logger,
		now:             utcNow,
	}
}

// CreateCampaign stores a DRAFT campaign. Brackets are given in ascending
// order and must partition the quantities from the first minimum upwards.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, req port.CreateCampaignReq) (*domain.Campaign, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.Validationf("title is required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, domain.Validationf("end date %s is before start date %s",
			req.EndDate.Format(time.DateOnly), req.StartDate.Format(time.DateOnly))
	}
	now := u.now()
	c := domain.NewCampaign(req.SupplierID, req.Title, req.StartDate, req.EndDate, now)
	c.Description = req.Description
	c.ProductMetadata = req.ProductMetadata
	c.TargetQuantity = req.TargetQuantity

	brackets := make([]domain.DiscountBracket, 0, len(req.Brackets))
	for i, b := range req.Brackets {
		brackets = append(brackets, domain.DiscountBracket{
			ID:           uuid.New(),
			CampaignID:   c.ID,
			MinQuantity:  b.MinQuantity,
			MaxQuantity:  b.MaxQuantity,
			UnitPrice:    b.UnitPrice,
			BracketOrder: i,
			CreatedAt:    now,
		})
	}
	if err := domain.NewBracketTable(brackets).Validate(); err != nil {
		return nil, err
	}
	err := u.Tx.WithinTx(ctx, func(ctx context.Context) error {
		return u.Campaigns.Create(ctx, c, brackets)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCampaign returns ErrCampaignNotFound for an unknown id.
func (u *CampaignUseCase) GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return u.load(ctx, id)
}

// ListByStatus lists campaigns in status.
func (u *CampaignUseCase) ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	return u.Campaigns.ListByStatus(ctx, status)
}

// Publish moves DRAFT to ACTIVE. The campaign needs at least one bracket, a
// start date no later than today and an end date no earlier than today.
func (u *CampaignUseCase) Publish(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return u.transition(ctx, id, func(ctx context.Context, c *domain.Campaign, now time.Time) error {
		if c.Status != domain.CampaignDraft {
			return domain.NewTransitionError("campaign", string(c.Status), string(domain.CampaignActive))
		}
		table, err := u.Brackets.GetAllBrackets(ctx, c.ID)
		if err != nil {
			return err
		}
		if len(table) == 0 {
			return domain.Validationf("campaign has no discount brackets")
		}
		today := domain.Day(now)
		if domain.Day(c.StartDate).After(today) {
			return domain.Validationf("start date %s is in the future", c.StartDate.Format(time.DateOnly))
		}
		if domain.Day(c.EndDate).Before(today) {
			return domain.Validationf("end date %s has passed", c.EndDate.Format(time.DateOnly))
		}
		return c.TransitionTo(domain.CampaignActive, now)
	})
}

// StartGracePeriod moves ACTIVE to GRACE_PERIOD.
func (u *CampaignUseCase) StartGracePeriod(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return u.transition(ctx, id, func(_ context.Context, c *domain.Campaign, now time.Time) error {
		return c.EnterGracePeriod(u.gracePeriodDays, now)
	})
}

// EvaluateCampaign settles a GRACE_PERIOD campaign.
func (u *CampaignUseCase) EvaluateCampaign(ctx context.Context, id uuid.UUID) (*port.Evaluation, error) {
	return u.settle(ctx, id, false)
}

// LockCampaign locks an ACTIVE or GRACE_PERIOD campaign without waiting for
// the grace period to end.
func (u *CampaignUseCase) LockCampaign(ctx context.Context, id uuid.UUID) (*port.Evaluation, error) {
	return u.settle(ctx, id, true)
}

// CancelCampaign moves DRAFT, ACTIVE or GRACE_PERIOD to CANCELLED and drops
// the campaign's pending pledges.
func (u *CampaignUseCase) CancelCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := u.transition(ctx, id, func(ctx context.Context, c *domain.Campaign, now time.Time) error {
		if err := c.TransitionTo(domain.CampaignCancelled, now); err != nil {
			return err
		}
		_, err := u.Pledges.WithdrawAllPendingPledges(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("campaign cancelled", slog.String("campaign_id", c.ID.String()))
	return c, nil
}

// CompleteCampaign moves LOCKED to DONE once every committed pledge has a
// settled invoice and a delivered fulfillment.
func (u *CampaignUseCase) CompleteCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	return u.transition(ctx, id, func(ctx context.Context, c *domain.Campaign, now time.Time) error {
		if !c.Status.CanTransitionTo(domain.CampaignDone) {
			return domain.NewTransitionError("campaign", string(c.Status), string(domain.CampaignDone))
		}
		pledges, err := u.Pledges.FindAllByCampaignIDAndStatus(ctx, c.ID, domain.PledgeCommitted)
		if err != nil {
			return err
		}
		if err = u.checkInvoicesSettled(ctx, c.ID, pledges); err != nil {
			return err
		}
		if err = u.Fulfillment.CheckDelivered(ctx, c.ID, pledges); err != nil {
			return err
		}
		return c.TransitionTo(domain.CampaignDone, now)
	})
}

func (u *CampaignUseCase) checkInvoicesSettled(ctx context.Context, campaignID uuid.UUID, pledges []domain.Pledge) error {
	invoices, err := u.Invoices.FindAllByCampaignID(ctx, campaignID)
	if err != nil {
		return err
	}
	byPledge := make(map[uuid.UUID]domain.InvoiceStatus, len(invoices))
	for _, inv := range invoices {
		byPledge[inv.PledgeID] = inv.Status
	}
	unpaid := 0
	for _, p := range pledges {
		if !byPledge[p.ID].IsSettled() {
			unpaid++
		}
	}
	if unpaid > 0 {
		return domain.Validationf("invoices not paid: %d of %d outstanding", unpaid, len(pledges))
	}
	return nil
}

// settle decides between LOCKED and CANCELLED. With manual set it accepts
// ACTIVE as well as GRACE_PERIOD and refuses instead of cancelling when the
// minimum is not met.
func (u *CampaignUseCase) settle(ctx context.Context, id uuid.UUID, manual bool) (*port.Evaluation, error) {
	var ev *port.Evaluation
	err := u.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := u.Campaigns.Get(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCampaignNotFound
		}
		switch {
		case c.Status == domain.CampaignGracePeriod:
		case manual && c.Status == domain.CampaignActive:
		default:
			return domain.NewTransitionError("campaign", string(c.Status), string(domain.CampaignLocked))
		}

		table, err := u.Brackets.GetAllBrackets(ctx, c.ID)
		if err != nil {
			return err
		}
		minViable, ok := table.MinViableQuantity()
		if !ok {
			return domain.Validationf("campaign has no discount brackets")
		}
		total, err := u.Pledges.CalculateTotalCommittedPledges(ctx, c.ID)
		if err != nil {
			return err
		}
		ev = &port.Evaluation{TotalCommitted: total, MinViable: minViable}
		now := u.now()

		if total < minViable {
			if manual {
				return domain.Validationf("minimum quantity of %d not met: %d committed", minViable, total)
			}
			if err = c.TransitionTo(domain.CampaignCancelled, now); err != nil {
				return err
			}
			if err = u.Campaigns.Update(ctx, c); err != nil {
				return err
			}
			ev.Outcome = port.OutcomeCancelled
		} else {
			winning, ok := table.Find(total)
			if !ok {
				return domain.Validationf("no discount bracket covers %d units", total)
			}
			if err = c.TransitionTo(domain.CampaignLocked, now); err != nil {
				return err
			}
			if err = u.Campaigns.Update(ctx, c); err != nil {
				return err
			}
			ev.Outcome = port.OutcomeLocked
			ev.WinningBracket = &winning
			if ev.InvoicesCreated, err = u.Invoices.GenerateInvoicesForCampaign(ctx, c.ID, winning); err != nil {
				return fmt.Errorf("generate invoices: %w", err)
			}
			if ev.IntentsCreated, err = u.Payments.GeneratePaymentIntents(ctx, c.ID, winning); err != nil {
				return fmt.Errorf("generate payment intents: %w", err)
			}
			if _, err = u.Fulfillment.GenerateForCampaign(ctx, c.ID); err != nil {
				return fmt.Errorf("generate fulfillments: %w", err)
			}
		}

		if ev.PledgesWithdrawn, err = u.Pledges.WithdrawAllPendingPledges(ctx, c.ID); err != nil {
			return err
		}
		ev.Campaign = *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("campaign_id", id.String()),
		slog.Int64("total", ev.TotalCommitted),
		slog.Int64("min_viable", ev.MinViable),
		slog.Int64("pledges_withdrawn", ev.PledgesWithdrawn),
	}
	if ev.WinningBracket != nil {
		attrs = append(attrs,
			slog.Int("bracket_order", ev.WinningBracket.BracketOrder),
			slog.String("unit_price", ev.WinningBracket.UnitPrice.String()))
	}
	u.logger.Info("campaign "+strings.ToLower(string(ev.Outcome)), attrs...)
	return ev, nil
}

func (u *CampaignUseCase) transition(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, c *domain.Campaign, now time.Time) error) (*domain.Campaign, error) {
	var out *domain.Campaign
	err := u.Tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := u.Campaigns.Get(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCampaignNotFound
		}
		if err = fn(ctx, c, u.now()); err != nil {
			return err
		}
		if err = u.Campaigns.Update(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (u *CampaignUseCase) load(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c, err := u.Campaigns.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrCampaignNotFound
	}
	return c, nil
}

// IsRetryable reports whether err came from a lost optimistic-lock race.
func IsRetryable(err error) bool {
	return errors.Is(err, port.ErrConcurrentModification)
}
