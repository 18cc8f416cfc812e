package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"groupbuy/internal/core/port"
)

// Services bundles the use cases the HTTP adapter exposes.
type Services struct {
	Campaigns   port.CampaignUseCase
	Brackets    port.BracketUseCase
	Pledges     port.PledgeUseCase
	Payments    port.PaymentUseCase
	Fulfillment port.FulfillmentUseCase
}

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. Use case errors are translated to status codes in one place, see
// writeError.
type Handler struct {
	svc    Services
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured under /api/v1.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Get("/", h.handleListCampaigns)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetCampaign)
				r.Post("/publish", h.handlePublish)
				r.Post("/grace-period", h.handleStartGracePeriod)
				r.Post("/evaluate", h.handleEvaluate)
				r.Post("/lock", h.handleLock)
				r.Post("/cancel", h.handleCancel)
				r.Post("/complete", h.handleComplete)
				r.Get("/brackets", h.handleGetBrackets)
				r.Get("/progress", h.handleGetProgress)
				r.Post("/pledges", h.handleCreatePledge)
				r.Get("/pledges", h.handleListPledges)
				r.Get("/fulfillments", h.handleListFulfillments)
			})
		})
		r.Post("/pledges/{id}/commit", h.handleCommitPledge)
		r.Put("/fulfillments/{id}/status", h.handleUpdateDeliveryStatus)
		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.handleListPayments)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetPayment)
				r.Put("/status", h.handleUpdatePaymentStatus)
				r.Post("/process", h.handleProcessPayment)
				r.Post("/retry", h.handleRetryPayment)
				r.Post("/ar", h.handleSendToAR)
				r.Post("/gateway-result", h.handleGatewayResult)
				r.Post("/ar-resolution", h.handleResolveAR)
			})
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
