package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceSent           InvoiceStatus = "SENT"
	InvoicePaid           InvoiceStatus = "PAID"
	InvoiceOverdue        InvoiceStatus = "OVERDUE"
	InvoiceCollectedViaAR InvoiceStatus = "COLLECTED_VIA_AR"
	InvoiceWrittenOff     InvoiceStatus = "WRITTEN_OFF"
)

var invoiceStatuses = statusIndex(InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCollectedViaAR, InvoiceWrittenOff)

// ParseInvoiceStatus resolves s case-insensitively.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	return lookupStatus("invoice status", invoiceStatuses, s)
}

// IsSettled reports whether the invoice's money has been collected, either
// directly or through accounts receivable.
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoicePaid || s == InvoiceCollectedViaAR
}

// Invoice bills one committed pledge at the winning bracket's unit price.
// Quantity, UnitPrice and Amount are fixed at lock time.
type Invoice struct {
	ID             uuid.UUID
	InvoiceNumber  string
	CampaignID     uuid.UUID
	PledgeID       uuid.UUID
	OrganizationID uuid.UUID
	Quantity       int64
	UnitPrice      decimal.Decimal
	Amount         decimal.Decimal
	Status         InvoiceStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInvoice bills pledge at bracket's unit price.
func NewInvoice(pledge Pledge, bracket DiscountBracket, now time.Time) *Invoice {
	return &Invoice{
		ID:             uuid.New(),
		InvoiceNumber:  InvoiceNumberFor(pledge.ID),
		CampaignID:     pledge.CampaignID,
		PledgeID:       pledge.ID,
		OrganizationID: pledge.OrganizationID,
		Quantity:       pledge.Quantity,
		UnitPrice:      bracket.UnitPrice,
		Amount:         CalculatePaymentAmount(pledge, bracket),
		Status:         InvoiceSent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InvoiceNumberFor derives the invoice number from the pledge id, so
// regenerating a missing invoice yields the same number.
func InvoiceNumberFor(pledgeID uuid.UUID) string {
	return "INV-" + strings.ToUpper(strings.ReplaceAll(pledgeID.String(), "-", ""))
}

// CalculatePaymentAmount returns quantity × unit price without rounding. The
// result keeps the unit price's scale.
func CalculatePaymentAmount(pledge Pledge, bracket DiscountBracket) decimal.Decimal {
	return bracket.UnitPrice.Mul(decimal.NewFromInt(pledge.Quantity))
}
