package httpadapter

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain"
)

type paymentResp struct {
	ID             uuid.UUID       `json:"id"`
	CampaignID     uuid.UUID       `json:"campaign_id"`
	PledgeID       uuid.UUID       `json:"pledge_id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	RetryCount     int             `json:"retry_count"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type gatewayResultReq struct {
	Succeeded bool `json:"succeeded"`
}

type arResolutionReq struct {
	Collected bool `json:"collected"`
}

func toPaymentResp(pi domain.PaymentIntent) paymentResp {
	return paymentResp{
		ID:             pi.ID,
		CampaignID:     pi.CampaignID,
		PledgeID:       pi.PledgeID,
		OrganizationID: pi.OrganizationID,
		Amount:         pi.Amount,
		Status:         string(pi.Status),
		RetryCount:     pi.RetryCount,
		UpdatedAt:      pi.UpdatedAt,
	}
}

// handleListPayments lists payment intents in the status given by the
// required `status` query parameter.
func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParsePaymentStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, "list payments", err)
		return
	}
	list, err := h.svc.Payments.ListByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, r, "list payments", err)
		return
	}
	out := make([]paymentResp, 0, len(list))
	for _, pi := range list {
		out = append(out, toPaymentResp(pi))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	h.paymentOp(w, r, "get payment", h.svc.Payments.GetPaymentIntent)
}

func (h *Handler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	h.paymentOp(w, r, "process payment", h.svc.Payments.ProcessPayment)
}

func (h *Handler) handleRetryPayment(w http.ResponseWriter, r *http.Request) {
	h.paymentOp(w, r, "retry payment", h.svc.Payments.RetryFailedPayment)
}

func (h *Handler) handleSendToAR(w http.ResponseWriter, r *http.Request) {
	h.paymentOp(w, r, "send to ar", h.svc.Payments.MarkAsSentToAR)
}

func (h *Handler) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if !decode(w, r, &req) {
		return
	}
	status, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		h.writeError(w, r, "update payment status", err)
		return
	}
	h.paymentOp(w, r, "update payment status", func(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
		return h.svc.Payments.UpdatePaymentStatus(ctx, id, status)
	})
}

func (h *Handler) handleGatewayResult(w http.ResponseWriter, r *http.Request) {
	var req gatewayResultReq
	if !decode(w, r, &req) {
		return
	}
	h.paymentOp(w, r, "gateway result", func(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
		return h.svc.Payments.HandleGatewayResult(ctx, id, req.Succeeded)
	})
}

func (h *Handler) handleResolveAR(w http.ResponseWriter, r *http.Request) {
	var req arResolutionReq
	if !decode(w, r, &req) {
		return
	}
	h.paymentOp(w, r, "resolve ar", func(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
		return h.svc.Payments.ResolveAR(ctx, id, req.Collected)
	})
}

// paymentOp runs fn for the {id} intent. When fn returns an intent together
// with an error, as ProcessPayment does after a failed submission, the
// error wins.
func (h *Handler) paymentOp(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	pi, err := fn(r.Context(), id)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPaymentResp(*pi))
}
