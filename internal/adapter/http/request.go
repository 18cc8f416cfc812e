package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a use case error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound),
		errors.Is(err, domain.ErrPledgeNotFound),
		errors.Is(err, domain.ErrPaymentIntentNotFound),
		errors.Is(err, domain.ErrFulfillmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrInvalidPaymentStatusTransition),
		errors.Is(err, domain.ErrIllegalState),
		errors.Is(err, port.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCampaignValidation),
		errors.Is(err, domain.ErrInvalidBrackets),
		errors.Is(err, domain.ErrInvalidPledge):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownStatus):
		return http.StatusBadRequest
	case errors.Is(err, port.ErrPaymentSubmission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs unexpected failures and writes a JSON error body. Internal
// errors are not echoed to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		h.logger.Error(op+" error", slog.String("path", r.URL.Path), slog.Any("error", err))
		msg = "internal error"
	} else {
		h.logger.Debug(op+" rejected", slog.String("path", r.URL.Path), slog.Int("status", code), slog.Any("error", err))
	}
	h.writeJSON(w, code, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// encoding should rarely fail; log and move on
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// pathID parses the {id} URL parameter. It writes a 400 and returns false
// when the parameter is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON")
		return false
	}
	return true
}

type statusReq struct {
	Status string `json:"status"`
}
