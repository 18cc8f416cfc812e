package port

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain"
)

// CampaignUseCase is the campaign state machine. Every transition loads the
// campaign, validates, mutates and persists inside one transaction.
// Missing campaigns yield domain.ErrCampaignNotFound and illegal moves
// domain.ErrInvalidStateTransition.
type CampaignUseCase interface {
	// CreateCampaign stores a DRAFT campaign with its bracket table.
	CreateCampaign(ctx context.Context, req CreateCampaignReq) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error)

	// Publish moves DRAFT to ACTIVE once brackets exist and today lies
	// within the campaign dates.
	Publish(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// StartGracePeriod moves ACTIVE to GRACE_PERIOD and fixes the grace
	// period end date.
	StartGracePeriod(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// EvaluateCampaign settles a GRACE_PERIOD campaign: LOCKED when the
	// committed total reaches the minimum viable quantity, CANCELLED
	// otherwise. Pending pledges are withdrawn in both cases.
	EvaluateCampaign(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	// LockCampaign locks an ACTIVE or GRACE_PERIOD campaign early. It
	// refuses, without cancelling, when the minimum is not met.
	LockCampaign(ctx context.Context, id uuid.UUID) (*Evaluation, error)
	CancelCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	// CompleteCampaign moves LOCKED to DONE once every invoice is settled
	// and every fulfillment is delivered.
	CompleteCampaign(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
}

// BracketUseCase answers pure bracket queries for a campaign.
type BracketUseCase interface {
	FindFirstBracketMinQuantity(ctx context.Context, campaignID uuid.UUID) (int64, bool, error)
	GetCurrentBracket(ctx context.Context, campaignID uuid.UUID, quantity int64) (*domain.DiscountBracket, error)
	GetAllBrackets(ctx context.Context, campaignID uuid.UUID) (domain.BracketTable, error)
	CalculateTotalPledged(ctx context.Context, campaignID uuid.UUID) (int64, error)
	GetBracketProgress(ctx context.Context, campaignID uuid.UUID) (*domain.BracketProgress, error)
}

// PledgeReader is the narrow pledge contract the state machine needs.
type PledgeReader interface {
	CalculateTotalCommittedPledges(ctx context.Context, campaignID uuid.UUID) (int64, error)
	FindAllByCampaignIDAndStatus(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) ([]domain.Pledge, error)
	WithdrawAllPendingPledges(ctx context.Context, campaignID uuid.UUID) (int64, error)
}

// PledgeUseCase adds pledge creation and commitment to PledgeReader.
type PledgeUseCase interface {
	PledgeReader
	CreatePledge(ctx context.Context, campaignID, organizationID uuid.UUID, quantity int64) (*domain.Pledge, error)
	CommitPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Pledge, error)
}

// InvoiceReader is the narrow invoice contract the state machine needs.
type InvoiceReader interface {
	FindAllByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]domain.Invoice, error)
}

// InvoiceGenerator creates invoices when a campaign locks.
type InvoiceGenerator interface {
	InvoiceReader
	// GenerateInvoicesForCampaign bills every committed pledge without an
	// invoice and returns how many invoices it created.
	GenerateInvoicesForCampaign(ctx context.Context, campaignID uuid.UUID, bracket domain.DiscountBracket) (int, error)
}

// FulfillmentReader is the narrow fulfillment contract the state machine
// needs.
type FulfillmentReader interface {
	FindAllByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]domain.CampaignFulfillment, error)
}

// FulfillmentUseCase tracks delivery per committed pledge.
type FulfillmentUseCase interface {
	FulfillmentReader
	GenerateForCampaign(ctx context.Context, campaignID uuid.UUID) (int, error)
	// CheckDelivered returns a campaign validation error unless every
	// pledge has a DELIVERED fulfillment.
	CheckDelivered(ctx context.Context, campaignID uuid.UUID, pledges []domain.Pledge) error
	UpdateDeliveryStatus(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus) (*domain.CampaignFulfillment, error)
}

// PaymentUseCase is the payment retry and escalation workflow.
type PaymentUseCase interface {
	GetPaymentIntent(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.PaymentIntent, error)
	// GeneratePaymentIntents creates one PENDING intent per committed
	// pledge of a LOCKED campaign. Pledges that already have an intent are
	// skipped.
	GeneratePaymentIntents(ctx context.Context, campaignID uuid.UUID, bracket domain.DiscountBracket) (int, error)
	CalculatePaymentAmount(pledge domain.Pledge, bracket domain.DiscountBracket) decimal.Decimal
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (*domain.PaymentIntent, error)
	RetryFailedPayment(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	MarkAsSentToAR(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	// ProcessPayment starts an attempt and hands the intent to the gateway.
	ProcessPayment(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error)
	// HandleGatewayResult applies the outcome the gateway reported for the
	// attempt in flight.
	HandleGatewayResult(ctx context.Context, id uuid.UUID, succeeded bool) (*domain.PaymentIntent, error)
	ResolveAR(ctx context.Context, id uuid.UUID, collected bool) (*domain.PaymentIntent, error)
}

// ErrPaymentSubmission is returned by ProcessPayment when the gateway
// rejected the attempt. The failure has already been recorded on the intent.
var ErrPaymentSubmission = errors.New("payment submission failed")

// PaymentGateway submits a payment attempt. The gateway reports the outcome
// later through PaymentUseCase.HandleGatewayResult.
type PaymentGateway interface {
	Submit(ctx context.Context, intent domain.PaymentIntent) error
}

// CreateCampaignReq describes a new DRAFT campaign.
type CreateCampaignReq struct {
	SupplierID      uuid.UUID
	Title           string
	Description     string
	ProductMetadata json.RawMessage
	TargetQuantity  int64
	StartDate       time.Time
	EndDate         time.Time
	Brackets        []BracketReq
}

// BracketReq is one bracket of a CreateCampaignReq. A nil MaxQuantity is unbounded.
type BracketReq struct {
	MinQuantity int64
	MaxQuantity *int64
	UnitPrice   decimal.Decimal
}

// EvaluationOutcome is the result of settling a campaign.
type EvaluationOutcome string

const (
	OutcomeLocked    EvaluationOutcome = "LOCKED"
	OutcomeCancelled EvaluationOutcome = "CANCELLED"
)

// Evaluation reports how a campaign was settled. WinningBracket is nil when
// the campaign was cancelled.
type Evaluation struct {
	Campaign         domain.Campaign
	Outcome          EvaluationOutcome
	TotalCommitted   int64
	MinViable        int64
	WinningBracket   *domain.DiscountBracket
	InvoicesCreated  int
	IntentsCreated   int
	PledgesWithdrawn int64
}
