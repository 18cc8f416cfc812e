// Package memory keeps every aggregate in process memory. It implements the
// same repository ports as the postgres adapter, including optimistic
// version checks, idempotent inserts and transactional rollback, and is
// used by tests and by STORE=memory runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
)

type txKey struct{}

type data struct {
	campaigns    map[uuid.UUID]domain.Campaign
	brackets     map[uuid.UUID][]domain.DiscountBracket
	pledges      map[uuid.UUID]domain.Pledge
	invoices     map[uuid.UUID]domain.Invoice
	intents      map[uuid.UUID]domain.PaymentIntent
	fulfillments map[uuid.UUID]domain.CampaignFulfillment
}

func newData() data {
	return data{
		campaigns:    map[uuid.UUID]domain.Campaign{},
		brackets:     map[uuid.UUID][]domain.DiscountBracket{},
		pledges:      map[uuid.UUID]domain.Pledge{},
		invoices:     map[uuid.UUID]domain.Invoice{},
		intents:      map[uuid.UUID]domain.PaymentIntent{},
		fulfillments: map[uuid.UUID]domain.CampaignFulfillment{},
	}
}

func (d data) clone() data {
	out := newData()
	for k, v := range d.campaigns {
		out.campaigns[k] = v
	}
	for k, v := range d.brackets {
		out.brackets[k] = append([]domain.DiscountBracket(nil), v...)
	}
	for k, v := range d.pledges {
		out.pledges[k] = v
	}
	for k, v := range d.invoices {
		out.invoices[k] = v
	}
	for k, v := range d.intents {
		out.intents[k] = v
	}
	for k, v := range d.fulfillments {
		out.fulfillments[k] = v
	}
	return out
}

// Store holds all aggregates. Use the accessor methods to obtain the
// repository for each port.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    data
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{d: newData()}
}

// WithinTx serialises transactions and restores the pre-transaction state
// when fn fails or panics. A context that already carries a transaction
// runs fn directly.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	restore := func() {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
	}
	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		restore()
		return err
	}
	return nil
}

// Campaigns returns the campaign repository.
func (s *Store) Campaigns() *CampaignRepository {
	return &CampaignRepository{s: s}
}

// Brackets returns the bracket repository.
func (s *Store) Brackets() *BracketRepository {
	return &BracketRepository{s: s}
}

// Pledges returns the pledge repository.
func (s *Store) Pledges() *PledgeRepository {
	return &PledgeRepository{s: s}
}

// Invoices returns the invoice repository.
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{s: s}
}

// PaymentIntents returns the payment intent repository.
func (s *Store) PaymentIntents() *PaymentIntentRepository {
	return &PaymentIntentRepository{s: s}
}

// Fulfillments returns the fulfillment repository.
func (s *Store) Fulfillments() *FulfillmentRepository {
	return &FulfillmentRepository{s: s}
}

// sortByCreation orders rows by creation time, breaking ties by id, so list
// results are stable across map iteration.
func sortByCreation[T any](rows []T, key func(T) (time.Time, uuid.UUID)) {
	sort.Slice(rows, func(i, j int) bool {
		ti, ii := key(rows[i])
		tj, ij := key(rows[j])
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ii.String() < ij.String()
	})
}
