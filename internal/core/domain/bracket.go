package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountBracket maps an inclusive quantity range to a unit price. A nil
// MaxQuantity marks the unbounded top tier.
type DiscountBracket struct {
	ID           uuid.UUID
	CampaignID   uuid.UUID
	MinQuantity  int64
	MaxQuantity  *int64
	UnitPrice    decimal.Decimal
	BracketOrder int
	CreatedAt    time.Time
}

// Contains reports whether q falls inside the bracket's range.
func (b DiscountBracket) Contains(q int64) bool {
	if q < b.MinQuantity {
		return false
	}
	return b.MaxQuantity == nil || q <= *b.MaxQuantity
}

// BracketTable is a campaign's brackets ordered by BracketOrder. Ranges are
// contiguous from the order-0 bracket upwards; quantities below the order-0
// minimum are not viable and match no bracket.
type BracketTable []DiscountBracket

// NewBracketTable copies and sorts brackets by BracketOrder.
func NewBracketTable(brackets []DiscountBracket) BracketTable {
	t := make(BracketTable, len(brackets))
	copy(t, brackets)
	sort.SliceStable(t, func(i, j int) bool { return t[i].BracketOrder < t[j].BracketOrder })
	return t
}

// MinViableQuantity returns the order-0 bracket's minimum.
func (t BracketTable) MinViableQuantity() (int64, bool) {
	if len(t) == 0 {
		return 0, false
	}
	return t[0].MinQuantity, true
}

// Find returns the unique bracket containing q.
func (t BracketTable) Find(q int64) (DiscountBracket, bool) {
	for _, b := range t {
		if b.Contains(q) {
			return b, true
		}
	}
	return DiscountBracket{}, false
}

// Next returns the first bracket starting above q.
func (t BracketTable) Next(q int64) (DiscountBracket, bool) {
	for _, b := range t {
		if b.MinQuantity > q {
			return b, true
		}
	}
	return DiscountBracket{}, false
}

// Validate checks the authoring contract: orders run 0..n-1, every range is
// well formed, each bracket starts right after the previous one ends, only
// the last bracket is unbounded and no price is negative.
func (t BracketTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: at least one bracket is required", ErrInvalidBrackets)
	}
	for i, b := range t {
		if b.BracketOrder != i {
			return fmt.Errorf("%w: bracket %d has order %d", ErrInvalidBrackets, i, b.BracketOrder)
		}
		if b.MinQuantity < 0 {
			return fmt.Errorf("%w: bracket %d has negative minimum", ErrInvalidBrackets, i)
		}
		if b.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: bracket %d has negative unit price", ErrInvalidBrackets, i)
		}
		last := i == len(t)-1
		if b.MaxQuantity == nil {
			if !last {
				return fmt.Errorf("%w: only the top bracket may be unbounded", ErrInvalidBrackets)
			}
			continue
		}
		if last {
			return fmt.Errorf("%w: top bracket must be unbounded", ErrInvalidBrackets)
		}
		if *b.MaxQuantity < b.MinQuantity {
			return fmt.Errorf("%w: bracket %d ends before it starts", ErrInvalidBrackets, i)
		}
		if next := t[i+1].MinQuantity; next != *b.MaxQuantity+1 {
			return fmt.Errorf("%w: bracket %d must start at %d, got %d", ErrInvalidBrackets, i+1, *b.MaxQuantity+1, next)
		}
	}
	return nil
}

// BracketProgress summarises where a committed total sits in the table.
type BracketProgress struct {
	TotalCommitted    int64
	MinViableQuantity int64
	MinimumMet        bool
	Current           *DiscountBracket
	Next              *DiscountBracket
	// UnitsToNext is zero when there is no higher bracket.
	UnitsToNext int64
}

// Progress evaluates total against the table.
func (t BracketTable) Progress(total int64) BracketProgress {
	p := BracketProgress{TotalCommitted: total}
	if minQty, ok := t.MinViableQuantity(); ok {
		p.MinViableQuantity = minQty
		p.MinimumMet = total >= minQty
	}
	if b, ok := t.Find(total); ok {
		p.Current = &b
	}
	if b, ok := t.Next(total); ok {
		p.Next = &b
		p.UnitsToNext = b.MinQuantity - total
	}
	return p
}
