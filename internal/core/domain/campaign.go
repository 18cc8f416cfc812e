package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus is the lifecycle status of a group-buying campaign.
type CampaignStatus string

const (
	CampaignDraft       CampaignStatus = "DRAFT"
	CampaignActive      CampaignStatus = "ACTIVE"
	CampaignGracePeriod CampaignStatus = "GRACE_PERIOD"
	CampaignLocked      CampaignStatus = "LOCKED"
	CampaignDone        CampaignStatus = "DONE"
	CampaignCancelled   CampaignStatus = "CANCELLED"
)

var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	CampaignDraft:       {CampaignActive, CampaignCancelled},
	CampaignActive:      {CampaignGracePeriod, CampaignLocked, CampaignCancelled},
	CampaignGracePeriod: {CampaignLocked, CampaignCancelled},
	CampaignLocked:      {CampaignDone},
	CampaignDone:        {},
	CampaignCancelled:   {},
}

var campaignStatuses = statusIndex(
	CampaignDraft, CampaignActive, CampaignGracePeriod, CampaignLocked, CampaignDone, CampaignCancelled,
)

// ParseCampaignStatus resolves a status string case-insensitively.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	return lookupStatus("campaign status", campaignStatuses, s)
}

// CanTransitionTo reports whether the lifecycle graph has an edge s -> to.
func (s CampaignStatus) CanTransitionTo(to CampaignStatus) bool {
	return allowed(campaignTransitions, s, to)
}

// IsTerminal reports whether no transition leaves s.
func (s CampaignStatus) IsTerminal() bool {
	return len(campaignTransitions[s]) == 0
}

// AcceptsPledges reports whether buyers may still create or commit pledges.
func (s CampaignStatus) AcceptsPledges() bool {
	return s == CampaignActive || s == CampaignGracePeriod
}

// Campaign is a supplier-run bulk-purchase offer. It is the aggregate root
// for its discount brackets and, through pledges, for invoices, payment
// intents and fulfillments. Campaigns are never deleted, only cancelled.
type Campaign struct {
	ID                 uuid.UUID
	SupplierID         uuid.UUID
	Title              string
	Description        string
	ProductMetadata    json.RawMessage
	TargetQuantity     int64
	StartDate          time.Time
	EndDate            time.Time
	GracePeriodEndDate *time.Time
	Status             CampaignStatus
	// Version is bumped by the repository on every successful update and is
	// used for optimistic concurrency control.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCampaign returns a DRAFT campaign with fresh id and timestamps.
func NewCampaign(supplierID uuid.UUID, title string, start, end, now time.Time) *Campaign {
	return &Campaign{
		ID:         uuid.New(),
		SupplierID: supplierID,
		Title:      title,
		StartDate:  start,
		EndDate:    end,
		Status:     CampaignDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch sets the update timestamp. Call it before persisting a mutation.
func (c *Campaign) Touch(now time.Time) {
	c.UpdatedAt = now
}

// TransitionTo moves the campaign to the given status if the lifecycle
// graph allows it.
func (c *Campaign) TransitionTo(to CampaignStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(to) {
		return NewTransitionError("campaign", string(c.Status), string(to))
	}
	c.Status = to
	c.Touch(now)
	return nil
}

// EnterGracePeriod moves an ACTIVE campaign into GRACE_PERIOD and fixes the
// grace period end date at EndDate plus the given number of days.
func (c *Campaign) EnterGracePeriod(days int, now time.Time) error {
	if err := c.TransitionTo(CampaignGracePeriod, now); err != nil {
		return err
	}
	end := c.EndDate.AddDate(0, 0, days)
	c.GracePeriodEndDate = &end
	return nil
}

// GraceExpired reports whether the grace period's last calendar day is
// behind now. The end date itself still belongs to the grace period.
func (c *Campaign) GraceExpired(now time.Time) bool {
	return c.Status == CampaignGracePeriod && c.GracePeriodEndDate != nil &&
		Day(now).After(Day(*c.GracePeriodEndDate))
}

// Day truncates t to midnight UTC. Campaign date rules compare calendar days.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
