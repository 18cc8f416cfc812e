package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

type bracketDTO struct {
	ID           uuid.UUID       `json:"id,omitempty"`
	MinQuantity  int64           `json:"min_quantity"`
	MaxQuantity  *int64          `json:"max_quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	BracketOrder int             `json:"bracket_order"`
}

type createCampaignReq struct {
	SupplierID      uuid.UUID       `json:"supplier_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ProductMetadata json.RawMessage `json:"product_metadata"`
	TargetQuantity  int64           `json:"target_quantity"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Brackets        []bracketDTO    `json:"brackets"`
}

type campaignResp struct {
	ID                 uuid.UUID       `json:"id"`
	SupplierID         uuid.UUID       `json:"supplier_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description,omitempty"`
	ProductMetadata    json.RawMessage `json:"product_metadata,omitempty"`
	TargetQuantity     int64           `json:"target_quantity"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	GracePeriodEndDate *time.Time      `json:"grace_period_end_date,omitempty"`
	Status             string          `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type evaluationResp struct {
	Campaign         campaignResp `json:"campaign"`
	Outcome          string       `json:"outcome"`
	TotalCommitted   int64        `json:"total_committed"`
	MinViable        int64        `json:"min_viable_quantity"`
	WinningBracket   *bracketDTO  `json:"winning_bracket,omitempty"`
	InvoicesCreated  int          `json:"invoices_created"`
	IntentsCreated   int          `json:"payment_intents_created"`
	PledgesWithdrawn int64        `json:"pledges_withdrawn"`
}

type progressResp struct {
	TotalCommitted    int64       `json:"total_committed"`
	MinViableQuantity int64       `json:"min_viable_quantity"`
	MinimumMet        bool        `json:"minimum_met"`
	Current           *bracketDTO `json:"current_bracket,omitempty"`
	Next              *bracketDTO `json:"next_bracket,omitempty"`
	UnitsToNext       int64       `json:"units_to_next"`
}

func toCampaignResp(c domain.Campaign) campaignResp {
	return campaignResp{
		ID:                 c.ID,
		SupplierID:         c.SupplierID,
		Title:              c.Title,
		Description:        c.Description,
		ProductMetadata:    c.ProductMetadata,
		TargetQuantity:     c.TargetQuantity,
		StartDate:          c.StartDate,
		EndDate:            c.EndDate,
		GracePeriodEndDate: c.GracePeriodEndDate,
		Status:             string(c.Status),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toBracketDTO(b *domain.DiscountBracket) *bracketDTO {
	if b == nil {
		return nil
	}
	return &bracketDTO{
		ID:           b.ID,
		MinQuantity:  b.MinQuantity,
		MaxQuantity:  b.MaxQuantity,
		UnitPrice:    b.UnitPrice,
		BracketOrder: b.BracketOrder,
	}
}

func toEvaluationResp(ev *port.Evaluation) evaluationResp {
	return evaluationResp{
		Campaign:         toCampaignResp(ev.Campaign),
		Outcome:          string(ev.Outcome),
		TotalCommitted:   ev.TotalCommitted,
		MinViable:        ev.MinViable,
		WinningBracket:   toBracketDTO(ev.WinningBracket),
		InvoicesCreated:  ev.InvoicesCreated,
		IntentsCreated:   ev.IntentsCreated,
		PledgesWithdrawn: ev.PledgesWithdrawn,
	}
}

// handleCreateCampaign stores a DRAFT campaign. Bracket order is taken from
// the position in the request array.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignReq
	if !decode(w, r, &req) {
		return
	}
	in := port.CreateCampaignReq{
		SupplierID:      req.SupplierID,
		Title:           req.Title,
		Description:     req.Description,
		ProductMetadata: req.ProductMetadata,
		TargetQuantity:  req.TargetQuantity,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Brackets:        make([]port.BracketReq, 0, len(req.Brackets)),
	}
	for _, b := range req.Brackets {
		in.Brackets = append(in.Brackets, port.BracketReq{
			MinQuantity: b.MinQuantity,
			MaxQuantity: b.MaxQuantity,
			UnitPrice:   b.UnitPrice,
		})
	}
	c, err := h.svc.Campaigns.CreateCampaign(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "create campaign", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCampaignResp(*c))
}

// handleListCampaigns lists campaigns in the status given by the required
// `status` query parameter.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseCampaignStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, r, "list campaigns", err)
		return
	}
	list, err := h.svc.Campaigns.ListByStatus(r.Context(), status)
	if err != nil {
		h.writeError(w, r, "list campaigns", err)
		return
	}
	out := make([]campaignResp, 0, len(list))
	for _, c := range list {
		out = append(out, toCampaignResp(c))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	h.campaignOp(w, r, "get campaign", h.svc.Campaigns.GetCampaign)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.campaignOp(w, r, "publish", h.svc.Campaigns.Publish)
}

func (h *Handler) handleStartGracePeriod(w http.ResponseWriter, r *http.Request) {
	h.campaignOp(w, r, "start grace period", h.svc.Campaigns.StartGracePeriod)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.campaignOp(w, r, "cancel", h.svc.Campaigns.CancelCampaign)
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.campaignOp(w, r, "complete", h.svc.Campaigns.CompleteCampaign)
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	h.settleOp(w, r, "evaluate", h.svc.Campaigns.EvaluateCampaign)
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	h.settleOp(w, r, "lock", h.svc.Campaigns.LockCampaign)
}

func (h *Handler) handleGetBrackets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.Campaigns.GetCampaign(r.Context(), id); err != nil {
		h.writeError(w, r, "get brackets", err)
		return
	}
	table, err := h.svc.Brackets.GetAllBrackets(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get brackets", err)
		return
	}
	out := make([]bracketDTO, 0, len(table))
	for i := range table {
		out = append(out, *toBracketDTO(&table[i]))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.Campaigns.GetCampaign(r.Context(), id); err != nil {
		h.writeError(w, r, "get progress", err)
		return
	}
	p, err := h.svc.Brackets.GetBracketProgress(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get progress", err)
		return
	}
	h.writeJSON(w, http.StatusOK, progressResp{
		TotalCommitted:    p.TotalCommitted,
		MinViableQuantity: p.MinViableQuantity,
		MinimumMet:        p.MinimumMet,
		Current:           toBracketDTO(p.Current),
		Next:              toBracketDTO(p.Next),
		UnitsToNext:       p.UnitsToNext,
	})
}

func (h *Handler) campaignOp(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id uuid.UUID) (*domain.Campaign, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := fn(r.Context(), id)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResp(*c))
}

func (h *Handler) settleOp(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id uuid.UUID) (*port.Evaluation, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ev, err := fn(r.Context(), id)
	if err != nil {
		h.writeError(w, r, op, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toEvaluationResp(ev))
}
