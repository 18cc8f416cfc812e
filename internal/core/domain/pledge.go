package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PledgeStatus is the state of a pledge.
type PledgeStatus string

const (
	PledgePending   PledgeStatus = "PENDING"
	PledgeCommitted PledgeStatus = "COMMITTED"
	PledgeWithdrawn PledgeStatus = "WITHDRAWN"
)

var pledgeTransitions = map[PledgeStatus][]PledgeStatus{
	PledgePending:   {PledgeCommitted, PledgeWithdrawn},
	PledgeCommitted: {},
	PledgeWithdrawn: {},
}

var pledgeStatuses = statusIndex(PledgePending, PledgeCommitted, PledgeWithdrawn)

// ParsePledgeStatus resolves s case-insensitively.
func ParsePledgeStatus(s string) (PledgeStatus, error) {
	return lookupStatus("pledge status", pledgeStatuses, s)
}

// Pledge is a buyer organization's commitment to a quantity in a campaign.
// Only COMMITTED pledges count toward bracket evaluation and invoicing.
type Pledge struct {
	ID             uuid.UUID
	CampaignID     uuid.UUID
	OrganizationID uuid.UUID
	Quantity       int64
	Status         PledgeStatus
	CommittedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPledge returns a PENDING pledge. Quantity must be positive.
func NewPledge(campaignID, organizationID uuid.UUID, quantity int64, now time.Time) (*Pledge, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidPledge, quantity)
	}
	return &Pledge{
		ID:             uuid.New(),
		CampaignID:     campaignID,
		OrganizationID: organizationID,
		Quantity:       quantity,
		Status:         PledgePending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Touch sets UpdatedAt.
func (p *Pledge) Touch(now time.Time) {
	p.UpdatedAt = now
}

// Commit marks a PENDING pledge as COMMITTED.
func (p *Pledge) Commit(now time.Time) error {
	if !allowed(pledgeTransitions, p.Status, PledgeCommitted) {
		return NewTransitionError("pledge", string(p.Status), string(PledgeCommitted))
	}
	p.Status = PledgeCommitted
	p.CommittedAt = &now
	p.Touch(now)
	return nil
}

// Withdraw marks a PENDING pledge as WITHDRAWN.
func (p *Pledge) Withdraw(now time.Time) error {
	if !allowed(pledgeTransitions, p.Status, PledgeWithdrawn) {
		return NewTransitionError("pledge", string(p.Status), string(PledgeWithdrawn))
	}
	p.Status = PledgeWithdrawn
	p.Touch(now)
	return nil
}
