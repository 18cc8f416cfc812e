package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCampaignNotFound      = errors.New("campaign not found")
	ErrPledgeNotFound        = errors.New("pledge not found")
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
	ErrFulfillmentNotFound   = errors.New("fulfillment not found")

	// ErrInvalidStateTransition is returned when a campaign, pledge or
	// fulfillment is asked to move along an edge its status graph lacks.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidPaymentStatusTransition is the payment-intent counterpart of
	// ErrInvalidStateTransition.
	ErrInvalidPaymentStatusTransition = errors.New("invalid payment status transition")

	ErrCampaignValidation = errors.New("campaign validation failed")
	ErrIllegalState       = errors.New("illegal state")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrInvalidBrackets    = errors.New("invalid discount brackets")
	ErrInvalidPledge      = errors.New("invalid pledge")
)

// TransitionError describes a rejected status change. It unwraps to either
// ErrInvalidStateTransition or ErrInvalidPaymentStatusTransition.
type TransitionError struct {
	Entity string
	From   string
	To     string
	kind   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", e.kind, e.Entity, e.From, e.To)
}

// Unwrap returns the sentinel for the entity kind.
func (e *TransitionError) Unwrap() error {
	return e.kind
}

// NewTransitionError reports an illegal lifecycle move of entity.
func NewTransitionError(entity, from, to string) error {
	return &TransitionError{Entity: entity, From: from, To: to, kind: ErrInvalidStateTransition}
}

func newPaymentTransitionError(from, to string) error {
	return &TransitionError{Entity: "payment intent", From: from, To: to, kind: ErrInvalidPaymentStatusTransition}
}

// ValidationError names the campaign rule that failed.
type ValidationError struct {
	Rule string
}

func (e *ValidationError) Error() string {
	return ErrCampaignValidation.Error() + ": " + e.Rule
}

// Unwrap returns ErrCampaignValidation.
func (e *ValidationError) Unwrap() error {
	return ErrCampaignValidation
}

// Validationf builds a ValidationError from a formatted rule description.
func Validationf(format string, args ...any) error {
	return &ValidationError{Rule: fmt.Sprintf(format, args...)}
}

// IllegalStatef wraps ErrIllegalState with the unmet condition.
func IllegalStatef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrIllegalState}, args...)...)
}
