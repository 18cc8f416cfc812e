// Package gateway holds outbound payment gateway adapters.
package gateway

import (
	"context"
	"log/slog"

	"groupbuy/internal/core/domain"
)

// Logging accepts every submission and only logs it. The outcome is
// expected to be reported later through the gateway-result endpoint, which
// is how an asynchronous card processor calls back.
type Logging struct {
	logger *slog.Logger
}

// NewLogging returns a gateway that only logs submissions.
func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logger}
}

// Submit logs the intent and accepts it.
func (g *Logging) Submit(ctx context.Context, intent domain.PaymentIntent) error {
	g.logger.InfoContext(ctx, "payment submitted",
		slog.String("payment_intent_id", intent.ID.String()),
		slog.String("organization_id", intent.OrganizationID.String()),
		slog.String("amount", intent.Amount.String()),
		slog.Int("retry_count", intent.RetryCount))
	return nil
}

// Func adapts a plain function to port.PaymentGateway.
type Func func(ctx context.Context, intent domain.PaymentIntent) error

// Submit calls f.
func (f Func) Submit(ctx context.Context, intent domain.PaymentIntent) error {
	return f(ctx, intent)
}
