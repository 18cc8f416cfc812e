package httpadapter

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
)

type createPledgeReq struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	Quantity       int64     `json:"quantity"`
}

type pledgeResp struct {
	ID             uuid.UUID  `json:"id"`
	CampaignID     uuid.UUID  `json:"campaign_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Quantity       int64      `json:"quantity"`
	Status         string     `json:"status"`
	CommittedAt    *time.Time `json:"committed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type fulfillmentResp struct {
	ID             uuid.UUID `json:"id"`
	CampaignID     uuid.UUID `json:"campaign_id"`
	PledgeID       uuid.UUID `json:"pledge_id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	DeliveryStatus string    `json:"delivery_status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toPledgeResp(p domain.Pledge) pledgeResp {
	return pledgeResp{
		ID:             p.ID,
		CampaignID:     p.CampaignID,
		OrganizationID: p.OrganizationID,
		Quantity:       p.Quantity,
		Status:         string(p.Status),
		CommittedAt:    p.CommittedAt,
		CreatedAt:      p.CreatedAt,
	}
}

func toFulfillmentResp(f domain.CampaignFulfillment) fulfillmentResp {
	return fulfillmentResp{
		ID:             f.ID,
		CampaignID:     f.CampaignID,
		PledgeID:       f.PledgeID,
		OrganizationID: f.OrganizationID,
		DeliveryStatus: string(f.DeliveryStatus),
		UpdatedAt:      f.UpdatedAt,
	}
}

func (h *Handler) handleCreatePledge(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req createPledgeReq
	if !decode(w, r, &req) {
		return
	}
	p, err := h.svc.Pledges.CreatePledge(r.Context(), campaignID, req.OrganizationID, req.Quantity)
	if err != nil {
		h.writeError(w, r, "create pledge", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toPledgeResp(*p))
}

// handleListPledges lists a campaign's pledges. The `status` query parameter
// defaults to COMMITTED.
func (h *Handler) handleListPledges(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(w, r)
	if !ok {
		return
	}
	status := domain.PledgeCommitted
	if s := r.URL.Query().Get("status"); s != "" {
		var err error
		if status, err = domain.ParsePledgeStatus(s); err != nil {
			h.writeError(w, r, "list pledges", err)
			return
		}
	}
	list, err := h.svc.Pledges.FindAllByCampaignIDAndStatus(r.Context(), campaignID, status)
	if err != nil {
		h.writeError(w, r, "list pledges", err)
		return
	}
	out := make([]pledgeResp, 0, len(list))
	for _, p := range list {
		out = append(out, toPledgeResp(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCommitPledge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Pledges.CommitPledge(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "commit pledge", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toPledgeResp(*p))
}

func (h *Handler) handleListFulfillments(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := h.svc.Fulfillment.FindAllByCampaignID(r.Context(), campaignID)
	if err != nil {
		h.writeError(w, r, "list fulfillments", err)
		return
	}
	out := make([]fulfillmentResp, 0, len(list))
	for _, f := range list {
		out = append(out, toFulfillmentResp(f))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusReq
	if !decode(w, r, &req) {
		return
	}
	status, err := domain.ParseDeliveryStatus(req.Status)
	if err != nil {
		h.writeError(w, r, "update delivery status", err)
		return
	}
	f, err := h.svc.Fulfillment.UpdateDeliveryStatus(r.Context(), id, status)
	if err != nil {
		h.writeError(w, r, "update delivery status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, toFulfillmentResp(*f))
}
