package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// InvoiceUseCase bills the committed pledges of a locked campaign.
type InvoiceUseCase struct {
	invoices port.InvoiceRepository
	pledges  port.PledgeReader
	logger   *slog.Logger
	now      func() time.Time
}

// NewInvoiceUseCase creates the invoice generator.
func NewInvoiceUseCase(invoices port.InvoiceRepository, pledges port.PledgeReader, logger *slog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, pledges: pledges, logger: logger, now: utcNow}
}

// GenerateInvoicesForCampaign creates one SENT invoice per committed pledge at
// the bracket's unit price. Pledges that already carry an invoice are
// skipped, so a run interrupted halfway can simply be repeated.
func (u *InvoiceUseCase) GenerateInvoicesForCampaign(ctx context.Context, campaignID uuid.UUID, bracket domain.DiscountBracket) (int, error) {
	pledges, err := u.pledges.FindAllByCampaignIDAndStatus(ctx, campaignID, domain.PledgeCommitted)
	if err != nil {
		return 0, err
	}
	now := u.now()
	created := 0
	for _, p := range pledges {
		inserted, err := u.invoices.CreateIfAbsent(ctx, domain.NewInvoice(p, bracket, now))
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	u.logger.Info("invoices generated",
		slog.String("campaign_id", campaignID.String()),
		slog.Int("created", created),
		slog.Int("pledges", len(pledges)),
		slog.String("unit_price", bracket.UnitPrice.String()))
	return created, nil
}

// FindAllByCampaignID lists the campaign's invoices.
func (u *InvoiceUseCase) FindAllByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]domain.Invoice, error) {
	return u.invoices.ListByCampaign(ctx, campaignID)
}
