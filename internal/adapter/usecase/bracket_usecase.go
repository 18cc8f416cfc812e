package usecase

import (
	"context"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

// BracketUseCase evaluates a campaign's discount bracket table. It never
// mutates brackets; they are fixed when the campaign is authored.
type BracketUseCase struct {
	brackets port.BracketRepository
	pledges  port.PledgeReader
}

// NewBracketUseCase creates the bracket evaluator.
func NewBracketUseCase(brackets port.BracketRepository, pledges port.PledgeReader) *BracketUseCase {
	return &BracketUseCase{brackets: brackets, pledges: pledges}
}

// GetAllBrackets returns the campaign's brackets ordered by BracketOrder.
func (u *BracketUseCase) GetAllBrackets(ctx context.Context, campaignID uuid.UUID) (domain.BracketTable, error) {
	brackets, err := u.brackets.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return domain.NewBracketTable(brackets), nil
}

// FindFirstBracketMinQuantity returns the minimum viable quantity. The
// boolean is false when the campaign has no brackets.
func (u *BracketUseCase) FindFirstBracketMinQuantity(ctx context.Context, campaignID uuid.UUID) (int64, bool, error) {
	table, err := u.GetAllBrackets(ctx, campaignID)
	if err != nil {
		return 0, false, err
	}
	minQty, ok := table.MinViableQuantity()
	return minQty, ok, nil
}

// GetCurrentBracket returns the bracket containing quantity, or nil when no
// bracket does.
func (u *BracketUseCase) GetCurrentBracket(ctx context.Context, campaignID uuid.UUID, quantity int64) (*domain.DiscountBracket, error) {
	table, err := u.GetAllBrackets(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	b, ok := table.Find(quantity)
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// CalculateTotalPledged sums the campaign's committed pledge quantities.
func (u *BracketUseCase) CalculateTotalPledged(ctx context.Context, campaignID uuid.UUID) (int64, error) {
	return u.pledges.CalculateTotalCommittedPledges(ctx, campaignID)
}

// GetBracketProgress reports the committed total against the bracket table.
func (u *BracketUseCase) GetBracketProgress(ctx context.Context, campaignID uuid.UUID) (*domain.BracketProgress, error) {
	table, err := u.GetAllBrackets(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	total, err := u.CalculateTotalPledged(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	progress := table.Progress(total)
	return &progress, nil
}
