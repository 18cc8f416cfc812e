package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// PaymentUseCase drives payment intents through the retry ladder and hands
// exhausted ones to accounts receivable. Every status change is mirrored
// onto the pledge's invoice so completion can be judged from invoices alone.
type PaymentUseCase struct {
	campaigns port.CampaignRepository
	intents   port.PaymentIntentRepository
	invoices  port.InvoiceRepository
	pledges   port.PledgeReader
	gateway   port.PaymentGateway
	tx        port.Transactor
	logger    *slog.Logger
	now       func() time.Time
}

// NewPaymentUseCase creates the payment workflow.
func NewPaymentUseCase(
	campaigns port.CampaignRepository,
	intents port.PaymentIntentRepository,
	invoices port.InvoiceRepository,
	pledges port.PledgeReader,
	gateway port.PaymentGateway,
	tx port.Transactor,
	logger *slog.Logger,
) *PaymentUseCase {
	return &PaymentUseCase{
		campaigns: campaigns,
		intents:   intents,
		invoices:  invoices,
		pledges:   pledges,
		gateway:   gateway,
		tx:        tx,
		logger:    logger,
		now:       utcNow,
	}
}

// GetPaymentIntent returns ErrPaymentIntentNotFound for an unknown id.
func (u *PaymentUseCase) GetPaymentIntent(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	pi, err := u.intents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pi == nil {
		return nil, domain.ErrPaymentIntentNotFound
	}
	return pi, nil
}

// ListByStatus returns every intent in status.
func (u *PaymentUseCase) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.PaymentIntent, error) {
	return u.intents.ListByStatus(ctx, status)
}

// CalculatePaymentAmount is quantity times the bracket's unit price.
func (u *PaymentUseCase) CalculatePaymentAmount(pledge domain.Pledge, bracket domain.DiscountBracket) decimal.Decimal {
	return domain.CalculatePaymentAmount(pledge, bracket)
}

// GeneratePaymentIntents creates a PENDING intent for each committed pledge
// of a LOCKED campaign. Pledges that already have an intent are skipped.
func (u *PaymentUseCase) GeneratePaymentIntents(ctx context.Context, campaignID uuid.UUID, bracket domain.DiscountBracket) (int, error) {
	created := 0
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := u.campaigns.Get(ctx, campaignID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrCampaignNotFound
		}
		if c.Status != domain.CampaignLocked {
			return domain.IllegalStatef("campaign %s must be %s to generate payment intents, is %s", c.ID, domain.CampaignLocked, c.Status)
		}
		pledges, err := u.pledges.FindAllByCampaignIDAndStatus(ctx, campaignID, domain.PledgeCommitted)
		if err != nil {
			return err
		}
		now := u.now()
		for _, p := range pledges {
			inserted, err := u.intents.CreateIfAbsent(ctx, domain.NewPaymentIntent(p, bracket, now))
			if err != nil {
				return err
			}
			if inserted {
				created++
			}
		}
		return nil
	})
	return created, err
}

// UpdatePaymentStatus follows one edge of the payment status graph.
func (u *PaymentUseCase) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.PaymentIntent, error) {
	return u.mutate(ctx, id, func(pi *domain.PaymentIntent, now time.Time) error {
		return pi.TransitionTo(status, now)
	})
}

// RetryFailedPayment records a failed attempt and climbs one rung of the
// retry ladder.
func (u *PaymentUseCase) RetryFailedPayment(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	return u.mutate(ctx, id, func(pi *domain.PaymentIntent, now time.Time) error {
		return pi.Retry(now)
	})
}

// MarkAsSentToAR escalates an intent that failed all retries.
func (u *PaymentUseCase) MarkAsSentToAR(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	pi, err := u.mutate(ctx, id, func(pi *domain.PaymentIntent, now time.Time) error {
		return pi.SendToAR(now)
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("payment intent sent to accounts receivable",
		slog.String("payment_intent_id", pi.ID.String()),
		slog.String("campaign_id", pi.CampaignID.String()),
		slog.String("amount", pi.Amount.String()))
	return pi, nil
}

// ProcessPayment starts an attempt and submits it to the gateway. A
// submission error counts as a failed attempt.
func (u *PaymentUseCase) ProcessPayment(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	pi, err := u.mutate(ctx, id, func(pi *domain.PaymentIntent, now time.Time) error {
		return pi.TransitionTo(domain.PaymentProcessing, now)
	})
	if err != nil {
		return nil, err
	}
	if err = u.gateway.Submit(ctx, *pi); err != nil {
		u.logger.Warn("payment submission failed",
			slog.String("payment_intent_id", pi.ID.String()),
			slog.Any("error", err))
		failed, ferr := u.HandleGatewayResult(ctx, id, false)
		if ferr != nil {
			return nil, ferr
		}
		return failed, fmt.Errorf("%w: intent %s: %v", port.ErrPaymentSubmission, id, err)
	}
	return pi, nil
}

// HandleGatewayResult applies a reported outcome to the attempt in flight.
// A failure climbs the retry ladder; once the ladder is used up the intent
// is escalated to accounts receivable.
func (u *PaymentUseCase) HandleGatewayResult(ctx context.Context, id uuid.UUID, succeeded bool) (*domain.PaymentIntent, error) {
	escalated := false
	pi, err := u.mutate(ctx, id, func(pi *domain.PaymentIntent, now time.Time) error {
		if pi.Status != domain.PaymentProcessing {
			return domain.IllegalStatef("payment intent %s has no attempt in flight (%s)", pi.ID, pi.Status)
		}
		if succeeded {
			return pi.TransitionTo(domain.PaymentSucceeded, now)
		}
		if pi.RetryCount < domain.MaxPaymentRetries {
			return pi.Retry(now)
		}
		if err := pi.ExhaustRetries(now); err != nil {
			return err
		}
		escalated = true
		return pi.SendToAR(now)
	})
	if err != nil {
		return nil, err
	}
	if escalated {
		u.logger.Info("payment intent sent to accounts receivable",
			slog.String("payment_intent_id", pi.ID.String()),
			slog.String("campaign_id", pi.CampaignID.String()),
			slog.String("amount", pi.Amount.String()))
	}
	return pi, nil
}

// ResolveAR records the accounts receivable outcome.
func (u *PaymentUseCase) ResolveAR(ctx context.Context, id uuid.UUID, collected bool) (*domain.PaymentIntent, error) {
	to := domain.PaymentWrittenOff
	if collected {
		to = domain.PaymentCollectedViaAR
	}
	return u.UpdatePaymentStatus(ctx, id, to)
}

func (u *PaymentUseCase) mutate(ctx context.Context, id uuid.UUID, fn func(pi *domain.PaymentIntent, now time.Time) error) (*domain.PaymentIntent, error) {
	var out *domain.PaymentIntent
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		pi, err := u.intents.Get(ctx, id)
		if err != nil {
			return err
		}
		if pi == nil {
			return domain.ErrPaymentIntentNotFound
		}
		before := pi.Status
		now := u.now()
		if err = fn(pi, now); err != nil {
			return err
		}
		if err = u.intents.Update(ctx, pi); err != nil {
			return err
		}
		if pi.Status != before {
			if err = u.syncInvoice(ctx, pi, now); err != nil {
				return err
			}
		}
		out = pi
		return nil
	})
	return out, err
}

func (u *PaymentUseCase) syncInvoice(ctx context.Context, pi *domain.PaymentIntent, now time.Time) error {
	status, ok := pi.Status.InvoiceStatus()
	if !ok {
		return nil
	}
	inv, err := u.invoices.GetByPledge(ctx, pi.PledgeID)
	if err != nil {
		return err
	}
	if inv == nil || inv.Status == status {
		return nil
	}
	return u.invoices.UpdateStatus(ctx, inv.ID, status, now)
}
