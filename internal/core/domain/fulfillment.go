package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus is the delivery state of one pledge's goods.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryFailed    DeliveryStatus = "FAILED"
)

var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:   {DeliveryInTransit, DeliveryFailed},
	DeliveryInTransit: {DeliveryDelivered, DeliveryFailed},
	DeliveryFailed:    {DeliveryInTransit},
	DeliveryDelivered: {},
}

var deliveryStatuses = statusIndex(DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryFailed)

// ParseDeliveryStatus resolves s case-insensitively.
func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	return lookupStatus("delivery status", deliveryStatuses, s)
}

// CampaignFulfillment tracks delivery of one committed pledge.
type CampaignFulfillment struct {
	ID             uuid.UUID
	CampaignID     uuid.UUID
	PledgeID       uuid.UUID
	OrganizationID uuid.UUID
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewFulfillment creates a PENDING row for a committed pledge.
func NewFulfillment(pledge Pledge, now time.Time) *CampaignFulfillment {
	return &CampaignFulfillment{
		ID:             uuid.New(),
		CampaignID:     pledge.CampaignID,
		PledgeID:       pledge.ID,
		OrganizationID: pledge.OrganizationID,
		DeliveryStatus: DeliveryPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch sets UpdatedAt.
func (f *CampaignFulfillment) Touch(now time.Time) {
	f.UpdatedAt = now
}

// TransitionTo moves the row along the delivery graph.
func (f *CampaignFulfillment) TransitionTo(to DeliveryStatus, now time.Time) error {
	if !allowed(deliveryTransitions, f.DeliveryStatus, to) {
		return NewTransitionError("fulfillment", string(f.DeliveryStatus), string(to))
	}
	f.DeliveryStatus = to
	f.Touch(now)
	return nil
}
