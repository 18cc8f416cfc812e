package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/adapter/gateway"
	httpadapter "groupbuy/internal/adapter/http"
	"groupbuy/internal/adapter/memory"
	"groupbuy/internal/app"
	"groupbuy/internal/core/domain"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.Func(func(context.Context, domain.PaymentIntent) error { return nil })
	a := app.New(app.MemoryRepositories(memory.NewStore()), gw, 3, logger)
	srv := httptest.NewServer(httpadapter.NewHandler(a.Services(), logger).Router())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+"/api/v1"+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type idResp struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

func createCampaign(t *testing.T, srv *httptest.Server) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	var c idResp
	code := call(t, srv, http.MethodPost, "/campaigns", map[string]any{
		"supplier_id": uuid.New(),
		"title":       "Desks",
		"start_date":  now.AddDate(0, 0, -1),
		"end_date":    now.AddDate(0, 0, 10),
		"brackets": []map[string]any{
			{"min_quantity": 10, "max_quantity": 50, "unit_price": "100.00"},
			{"min_quantity": 51, "unit_price": "90.00"},
		},
	}, &c)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "DRAFT", c.Status)
	return c.ID
}

func TestCampaignFlow(t *testing.T) {
	srv := newServer(t)
	id := createCampaign(t, srv)
	base := "/campaigns/" + id.String()

	var c idResp
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/publish", nil, &c))
	assert.Equal(t, "ACTIVE", c.Status)

	var p idResp
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, base+"/pledges",
		map[string]any{"organization_id": uuid.New(), "quantity": 15}, &p))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/pledges/"+p.ID.String()+"/commit", nil, &p))
	assert.Equal(t, "COMMITTED", p.Status)

	var progress struct {
		TotalCommitted int64 `json:"total_committed"`
		MinimumMet     bool  `json:"minimum_met"`
		UnitsToNext    int64 `json:"units_to_next"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, base+"/progress", nil, &progress))
	assert.Equal(t, int64(15), progress.TotalCommitted)
	assert.True(t, progress.MinimumMet)
	assert.Equal(t, int64(36), progress.UnitsToNext)

	var ev struct {
		Outcome         string `json:"outcome"`
		InvoicesCreated int    `json:"invoices_created"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/lock", nil, &ev))
	assert.Equal(t, "LOCKED", ev.Outcome)
	assert.Equal(t, 1, ev.InvoicesCreated)

	var errBody struct {
		Error string `json:"error"`
	}
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, base+"/cancel", nil, &errBody))
	assert.Contains(t, errBody.Error, "LOCKED")

	assert.Equal(t, http.StatusUnprocessableEntity, call(t, srv, http.MethodPost, base+"/complete", nil, &errBody))
	assert.Contains(t, errBody.Error, "invoices not paid")
}

func TestPaymentEndpoints(t *testing.T) {
	srv := newServer(t)
	id := createCampaign(t, srv)
	base := "/campaigns/" + id.String()
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/publish", nil, nil))
	var p idResp
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, base+"/pledges",
		map[string]any{"organization_id": uuid.New(), "quantity": 60}, &p))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/pledges/"+p.ID.String()+"/commit", nil, nil))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, base+"/lock", nil, nil))

	var pending []struct {
		ID     uuid.UUID `json:"id"`
		Amount string    `json:"amount"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/payments?status=pending", nil, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "5400", pending[0].Amount)
	pay := "/payments/" + pending[0].ID.String()

	var pi struct {
		Status     string `json:"status"`
		RetryCount int    `json:"retry_count"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, pay+"/process", nil, &pi))
	assert.Equal(t, "PROCESSING", pi.Status)

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, pay+"/gateway-result", map[string]any{"succeeded": false}, &pi))
	assert.Equal(t, "FAILED_RETRY_1", pi.Status)
	assert.Equal(t, 1, pi.RetryCount)

	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, pay+"/ar", nil, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodPut, pay+"/status", map[string]any{"status": "BOGUS"}, nil))
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPut, pay+"/status", map[string]any{"status": "SUCCEEDED"}, nil))

	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPut, pay+"/status", map[string]any{"status": "processing"}, &pi))
	assert.Equal(t, "PROCESSING", pi.Status)
}

func TestErrorMapping(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/campaigns/not-a-uuid", nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodGet, "/campaigns/"+uuid.NewString(), nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPost, "/payments/"+uuid.NewString()+"/retry", nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, srv, http.MethodPut, "/fulfillments/"+uuid.NewString()+"/status",
		map[string]any{"status": "DELIVERED"}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, srv, http.MethodGet, "/campaigns?status=ARCHIVED", nil, nil))

	id := createCampaign(t, srv)
	assert.Equal(t, http.StatusConflict, call(t, srv, http.MethodPost, "/campaigns/"+id.String()+"/pledges",
		map[string]any{"organization_id": uuid.New(), "quantity": 5}, nil))

	var list []idResp
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/campaigns?status=draft", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	assert.Equal(t, http.StatusUnprocessableEntity, call(t, srv, http.MethodPost, "/campaigns", map[string]any{
		"title":      "No brackets",
		"start_date": time.Now(),
		"end_date":   time.Now(),
	}, nil))
}
