package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPaymentRetries is the length of the automated retry ladder. An intent
// that fails this many times is handed to accounts receivable.
const MaxPaymentRetries = 3

// PaymentStatus is a rung of the payment retry and escalation workflow.
type PaymentStatus string

const (
	PaymentPending        PaymentStatus = "PENDING"
	PaymentProcessing     PaymentStatus = "PROCESSING"
	PaymentSucceeded      PaymentStatus = "SUCCEEDED"
	PaymentFailedRetry1   PaymentStatus = "FAILED_RETRY_1"
	PaymentFailedRetry2   PaymentStatus = "FAILED_RETRY_2"
	PaymentFailedRetry3   PaymentStatus = "FAILED_RETRY_3"
	PaymentSentToAR       PaymentStatus = "SENT_TO_AR"
	PaymentCollectedViaAR PaymentStatus = "COLLECTED_VIA_AR"
	PaymentWrittenOff     PaymentStatus = "WRITTEN_OFF"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:        {PaymentProcessing},
	PaymentProcessing:     {PaymentSucceeded, PaymentFailedRetry1},
	PaymentFailedRetry1:   {PaymentProcessing, PaymentFailedRetry2},
	PaymentFailedRetry2:   {PaymentProcessing, PaymentFailedRetry3},
	PaymentFailedRetry3:   {PaymentProcessing, PaymentSentToAR},
	PaymentSentToAR:       {PaymentCollectedViaAR, PaymentWrittenOff},
	PaymentSucceeded:      {},
	PaymentCollectedViaAR: {},
	PaymentWrittenOff:     {},
}

var paymentStatuses = statusIndex(
	PaymentPending, PaymentProcessing, PaymentSucceeded,
	PaymentFailedRetry1, PaymentFailedRetry2, PaymentFailedRetry3,
	PaymentSentToAR, PaymentCollectedViaAR, PaymentWrittenOff,
)

// ParsePaymentStatus resolves s case-insensitively.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	return lookupStatus("payment status", paymentStatuses, s)
}

// CanTransitionTo reports whether to is an edge of the payment graph.
func (s PaymentStatus) CanTransitionTo(to PaymentStatus) bool {
	return allowed(paymentTransitions, s, to)
}

// IsTerminal reports whether no edge leaves s.
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// FailedRetryStatus returns FAILED_RETRY_n for n in 1..MaxPaymentRetries.
func FailedRetryStatus(n int) (PaymentStatus, bool) {
	switch n {
	case 1:
		return PaymentFailedRetry1, true
	case 2:
		return PaymentFailedRetry2, true
	case 3:
		return PaymentFailedRetry3, true
	}
	return "", false
}

// InvoiceStatus returns the invoice status a payment outcome settles to.
// Statuses with no invoice consequence report false.
func (s PaymentStatus) InvoiceStatus() (InvoiceStatus, bool) {
	switch s {
	case PaymentSucceeded:
		return InvoicePaid, true
	case PaymentSentToAR:
		return InvoiceOverdue, true
	case PaymentCollectedViaAR:
		return InvoiceCollectedViaAR, true
	case PaymentWrittenOff:
		return InvoiceWrittenOff, true
	}
	return "", false
}

// PaymentIntent tracks collection of one committed pledge's amount.
type PaymentIntent struct {
	ID             uuid.UUID
	CampaignID     uuid.UUID
	PledgeID       uuid.UUID
	OrganizationID uuid.UUID
	Amount         decimal.Decimal
	Status         PaymentStatus
	RetryCount     int
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPaymentIntent returns a PENDING intent for pledge priced at bracket.
func NewPaymentIntent(pledge Pledge, bracket DiscountBracket, now time.Time) *PaymentIntent {
	return &PaymentIntent{
		ID:             uuid.New(),
		CampaignID:     pledge.CampaignID,
		PledgeID:       pledge.ID,
		OrganizationID: pledge.OrganizationID,
		Amount:         CalculatePaymentAmount(pledge, bracket),
		Status:         PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Touch sets UpdatedAt.
func (p *PaymentIntent) Touch(now time.Time) {
	p.UpdatedAt = now
}

// TransitionTo follows one edge of the payment status graph.
func (p *PaymentIntent) TransitionTo(to PaymentStatus, now time.Time) error {
	if !p.Status.CanTransitionTo(to) {
		return newPaymentTransitionError(string(p.Status), string(to))
	}
	p.Status = to
	p.Touch(now)
	return nil
}

// Retry records one more failed attempt: RetryCount goes up by one and the
// status becomes FAILED_RETRY_{RetryCount}.
func (p *PaymentIntent) Retry(now time.Time) error {
	if p.RetryCount >= MaxPaymentRetries {
		return IllegalStatef("Maximum retries (%d) reached for payment intent %s", MaxPaymentRetries, p.ID)
	}
	switch p.Status {
	case PaymentProcessing, PaymentFailedRetry1, PaymentFailedRetry2:
	default:
		return IllegalStatef("Cannot retry payment intent %s in status %s", p.ID, p.Status)
	}
	p.RetryCount++
	next, _ := FailedRetryStatus(p.RetryCount)
	p.Status = next
	p.Touch(now)
	return nil
}

// SendToAR escalates an exhausted intent to accounts receivable.
func (p *PaymentIntent) SendToAR(now time.Time) error {
	if p.RetryCount != MaxPaymentRetries {
		return IllegalStatef("payment intent %s needs %d retries before AR, has %d", p.ID, MaxPaymentRetries, p.RetryCount)
	}
	if p.Status != PaymentFailedRetry3 {
		return IllegalStatef("payment intent %s must be %s before AR, is %s", p.ID, PaymentFailedRetry3, p.Status)
	}
	p.Status = PaymentSentToAR
	p.Touch(now)
	return nil
}

// ExhaustRetries puts a PROCESSING intent whose ladder is used up back at
// FAILED_RETRY_3, the only status AR escalation accepts.
func (p *PaymentIntent) ExhaustRetries(now time.Time) error {
	if p.Status != PaymentProcessing || p.RetryCount != MaxPaymentRetries {
		return IllegalStatef("payment intent %s has not exhausted its retries (%s, %d)", p.ID, p.Status, p.RetryCount)
	}
	p.Status = PaymentFailedRetry3
	p.Touch(now)
	return nil
}
