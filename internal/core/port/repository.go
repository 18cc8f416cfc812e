package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
)

// ErrConcurrentModification is returned by repositories when an optimistic
// version check fails. The caller may reload and retry.
var ErrConcurrentModification = errors.New("concurrent modification")

// Transactor runs fn inside a single storage transaction. Repositories called
// with the context passed to fn join that transaction. Nested calls reuse the
// outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// CampaignRepository persists campaigns and their bracket tables. Get
// returns nil, nil when the campaign does not exist; inside a transaction
// it locks the row until commit.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign, brackets []domain.DiscountBracket) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// Update persists c if its Version still matches the stored one and
	// bumps c.Version. It returns ErrConcurrentModification otherwise.
	Update(ctx context.Context, c *domain.Campaign) error
	ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error)
}

// BracketRepository reads a campaign's discount brackets ordered by
// BracketOrder.
type BracketRepository interface {
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.DiscountBracket, error)
}

// PledgeRepository persists pledges.
type PledgeRepository interface {
	Create(ctx context.Context, p *domain.Pledge) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Pledge, error)
	Update(ctx context.Context, p *domain.Pledge) error
	SumQuantity(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) (int64, error)
	ListByCampaignAndStatus(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) ([]domain.Pledge, error)
	// WithdrawAllPending moves every PENDING pledge of the campaign to
	// WITHDRAWN and returns how many rows changed.
	WithdrawAllPending(ctx context.Context, campaignID uuid.UUID, now time.Time) (int64, error)
}

// InvoiceRepository persists invoices.
type InvoiceRepository interface {
	// CreateIfAbsent inserts inv unless the pledge already has an invoice.
	// It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, inv *domain.Invoice) (bool, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Invoice, error)
	GetByPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, now time.Time) error
}

// PaymentIntentRepository persists payment intents. Intents are never deleted.
type PaymentIntentRepository interface {
	// CreateIfAbsent inserts pi unless the pledge already has an intent.
	CreateIfAbsent(ctx context.Context, pi *domain.PaymentIntent) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	// Update uses the same optimistic version check as CampaignRepository.
	Update(ctx context.Context, pi *domain.PaymentIntent) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.PaymentIntent, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.PaymentIntent, error)
}

// FulfillmentRepository persists fulfillment rows.
type FulfillmentRepository interface {
	CreateIfAbsent(ctx context.Context, f *domain.CampaignFulfillment) (bool, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.CampaignFulfillment, error)
	Update(ctx context.Context, f *domain.CampaignFulfillment) error
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.CampaignFulfillment, error)
}
