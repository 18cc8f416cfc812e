package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository on a Store.
type CampaignRepository struct{ s *Store }

// Create stores c together with its brackets.
func (r *CampaignRepository) Create(_ context.Context, c *domain.Campaign, brackets []domain.DiscountBracket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.campaigns[c.ID]; ok {
		return fmt.Errorf("campaign %s already exists", c.ID)
	}
	r.s.d.campaigns[c.ID] = *c
	r.s.d.brackets[c.ID] = append([]domain.DiscountBracket(nil), brackets...)
	return nil
}

// Get returns a copy, or nil, nil when the campaign does not exist.
func (r *CampaignRepository) Get(_ context.Context, id uuid.UUID) (*domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.d.campaigns[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// Update writes c if its version is current and bumps the version.
func (r *CampaignRepository) Update(_ context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.d.campaigns[c.ID]
	if !ok {
		return domain.ErrCampaignNotFound
	}
	if stored.Version != c.Version {
		return port.ErrConcurrentModification
	}
	c.Version++
	r.s.d.campaigns[c.ID] = *c
	return nil
}

// ListByStatus returns campaigns in status.
func (r *CampaignRepository) ListByStatus(_ context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Campaign
	for _, c := range r.s.d.campaigns {
		if c.Status == status {
			out = append(out, c)
		}
	}
	sortByCreation(out, func(c domain.Campaign) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID })
	return out, nil
}

// BracketRepository implements port.BracketRepository on a Store.
type BracketRepository struct{ s *Store }

// ListByCampaign returns the brackets in order.
func (r *BracketRepository) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]domain.DiscountBracket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return domain.NewBracketTable(r.s.d.brackets[campaignID]), nil
}

// PledgeRepository implements port.PledgeRepository on a Store.
type PledgeRepository struct{ s *Store }

// Create stores p.
func (r *PledgeRepository) Create(_ context.Context, p *domain.Pledge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.pledges[p.ID] = *p
	return nil
}

// Get returns a copy, or nil, nil when the pledge does not exist.
func (r *PledgeRepository) Get(_ context.Context, id uuid.UUID) (*domain.Pledge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.d.pledges[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Update overwrites the stored pledge.
func (r *PledgeRepository) Update(_ context.Context, p *domain.Pledge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.pledges[p.ID]; !ok {
		return domain.ErrPledgeNotFound
	}
	r.s.d.pledges[p.ID] = *p
	return nil
}

// SumQuantity totals the quantities of the campaign's pledges in status.
func (r *PledgeRepository) SumQuantity(_ context.Context, campaignID uuid.UUID, status domain.PledgeStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var total int64
	for _, p := range r.s.d.pledges {
		if p.CampaignID == campaignID && p.Status == status {
			total += p.Quantity
		}
	}
	return total, nil
}

// ListByCampaignAndStatus returns matching pledges oldest first.
func (r *PledgeRepository) ListByCampaignAndStatus(_ context.Context, campaignID uuid.UUID, status domain.PledgeStatus) ([]domain.Pledge, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Pledge
	for _, p := range r.s.d.pledges {
		if p.CampaignID == campaignID && p.Status == status {
			out = append(out, p)
		}
	}
	sortByCreation(out, func(p domain.Pledge) (time.Time, uuid.UUID) { return p.CreatedAt, p.ID })
	return out, nil
}

// WithdrawAllPending withdraws the campaign's pending pledges.
func (r *PledgeRepository) WithdrawAllPending(_ context.Context, campaignID uuid.UUID, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.d.pledges {
		if p.CampaignID != campaignID || p.Status != domain.PledgePending {
			continue
		}
		if err := p.Withdraw(now); err != nil {
			return n, err
		}
		r.s.d.pledges[id] = p
		n++
	}
	return n, nil
}

// InvoiceRepository implements port.InvoiceRepository on a Store.
type InvoiceRepository struct{ s *Store }

// CreateIfAbsent keeps one invoice per pledge.
func (r *InvoiceRepository) CreateIfAbsent(_ context.Context, inv *domain.Invoice) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.invoices {
		if existing.CampaignID == inv.CampaignID && existing.PledgeID == inv.PledgeID {
			return false, nil
		}
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return false, fmt.Errorf("invoice number %s already used", inv.InvoiceNumber)
		}
	}
	r.s.d.invoices[inv.ID] = *inv
	return true, nil
}

// ListByCampaign returns the campaign's invoices oldest first.
func (r *InvoiceRepository) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Invoice
	for _, inv := range r.s.d.invoices {
		if inv.CampaignID == campaignID {
			out = append(out, inv)
		}
	}
	sortByCreation(out, func(i domain.Invoice) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID })
	return out, nil
}

// GetByPledge returns nil, nil when the pledge has no invoice.
func (r *InvoiceRepository) GetByPledge(_ context.Context, pledgeID uuid.UUID) (*domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.d.invoices {
		if inv.PledgeID == pledgeID {
			return &inv, nil
		}
	}
	return nil, nil
}

// UpdateStatus changes the status only.
func (r *InvoiceRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.InvoiceStatus, now time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.d.invoices[id]
	if !ok {
		return fmt.Errorf("invoice %s not found", id)
	}
	inv.Status = status
	inv.UpdatedAt = now
	r.s.d.invoices[id] = inv
	return nil
}

// PaymentIntentRepository implements port.PaymentIntentRepository on a Store.
type PaymentIntentRepository struct{ s *Store }

// CreateIfAbsent keeps one intent per pledge.
func (r *PaymentIntentRepository) CreateIfAbsent(_ context.Context, pi *domain.PaymentIntent) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.intents {
		if existing.CampaignID == pi.CampaignID && existing.PledgeID == pi.PledgeID {
			return false, nil
		}
	}
	r.s.d.intents[pi.ID] = *pi
	return true, nil
}

// Get returns a copy, or nil, nil when the intent does not exist.
func (r *PaymentIntentRepository) Get(_ context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	pi, ok := r.s.d.intents[id]
	if !ok {
		return nil, nil
	}
	return &pi, nil
}

// Update writes pi if its version is current and bumps the version.
func (r *PaymentIntentRepository) Update(_ context.Context, pi *domain.PaymentIntent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.d.intents[pi.ID]
	if !ok {
		return domain.ErrPaymentIntentNotFound
	}
	if stored.Version != pi.Version {
		return port.ErrConcurrentModification
	}
	pi.Version++
	r.s.d.intents[pi.ID] = *pi
	return nil
}

// ListByCampaign returns the campaign's intents oldest first.
func (r *PaymentIntentRepository) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]domain.PaymentIntent, error) {
	return r.list(func(pi domain.PaymentIntent) bool { return pi.CampaignID == campaignID }), nil
}

// ListByStatus returns every intent in status, oldest first.
func (r *PaymentIntentRepository) ListByStatus(_ context.Context, status domain.PaymentStatus) ([]domain.PaymentIntent, error) {
	return r.list(func(pi domain.PaymentIntent) bool { return pi.Status == status }), nil
}

func (r *PaymentIntentRepository) list(match func(domain.PaymentIntent) bool) []domain.PaymentIntent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.PaymentIntent
	for _, pi := range r.s.d.intents {
		if match(pi) {
			out = append(out, pi)
		}
	}
	sortByCreation(out, func(pi domain.PaymentIntent) (time.Time, uuid.UUID) { return pi.CreatedAt, pi.ID })
	return out
}

// FulfillmentRepository implements port.FulfillmentRepository on a Store.
type FulfillmentRepository struct{ s *Store }

// CreateIfAbsent keeps one fulfillment row per pledge.
func (r *FulfillmentRepository) CreateIfAbsent(_ context.Context, f *domain.CampaignFulfillment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.d.fulfillments {
		if existing.CampaignID == f.CampaignID && existing.PledgeID == f.PledgeID {
			return false, nil
		}
	}
	r.s.d.fulfillments[f.ID] = *f
	return true, nil
}

// Get returns a copy, or nil, nil when the row does not exist.
func (r *FulfillmentRepository) Get(_ context.Context, id uuid.UUID) (*domain.CampaignFulfillment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.d.fulfillments[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// Update overwrites the stored row.
func (r *FulfillmentRepository) Update(_ context.Context, f *domain.CampaignFulfillment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.fulfillments[f.ID]; !ok {
		return domain.ErrFulfillmentNotFound
	}
	r.s.d.fulfillments[f.ID] = *f
	return nil
}

// ListByCampaign returns the campaign's fulfillment rows.
func (r *FulfillmentRepository) ListByCampaign(_ context.Context, campaignID uuid.UUID) ([]domain.CampaignFulfillment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.CampaignFulfillment
	for _, f := range r.s.d.fulfillments {
		if f.CampaignID == campaignID {
			out = append(out, f)
		}
	}
	sortByCreation(out, func(f domain.CampaignFulfillment) (time.Time, uuid.UUID) { return f.CreatedAt, f.ID })
	return out, nil
}
