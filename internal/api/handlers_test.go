package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/internal/services"
	"github.com/yieldlabs-io/yield-ledger/testutil"
)

const admin = "admin"

type apiHarness struct {
	t       *testing.T
	handler http.Handler
	svc     *services.Service
	token   *testutil.FakeToken
	clock   *clockwork.FakeClock
}

func newTestServer(t *testing.T) *apiHarness {
	t.Helper()

	cfg := &config.Config{
		Api:    config.ApiConfig{Host: "127.0.0.1", Port: 8092},
		Poller: config.PollerConfig{StatsPollingInterval: time.Minute},
	}
	token := testutil.NewFakeToken()
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0).UTC())
	auth := &testutil.FakeAuth{Authorized: map[string]bool{admin: true}}

	svc := services.NewService(cfg, testutil.NewInMemoryDb(), token, &testutil.FakeTreasury{}, auth, nil).
		WithClock(clock)
	require.NoError(t, svc.Bootstrap(context.Background()))

	srv := New(&cfg.Api, svc)
	return &apiHarness{
		t:       t,
		handler: srv.httpServer.Handler,
		svc:     svc,
		token:   token,
		clock:   clock,
	}
}

func (h *apiHarness) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *apiHarness) mint(to string, amount int64) {
	h.t.Helper()
	amt := sdkmath.NewInt(amount)
	require.NoError(h.t, h.svc.ApplyBalanceChange(context.Background(), "", to, amt, 0))
	h.token.Apply("", to, amt)
}

func asAdmin() map[string]string {
	return map[string]string{callerHeader: admin}
}

func TestDepositEndpoint(t *testing.T) {
	h := newTestServer(t)
	h.mint("alice", 100)
	h.clock.Advance(10 * time.Second)

	rec := h.do(http.MethodPost, "/v1/deposits", depositRequest{Amount: "500"}, asAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/v1/deposits", depositRequest{Amount: "500"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPost, "/v1/deposits", depositRequest{Amount: "many"}, asAdmin())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettleAndClaimEndpoints(t *testing.T) {
	h := newTestServer(t)
	h.mint("alice", 100)
	h.clock.Advance(10 * time.Second)
	rec := h.do(http.MethodPost, "/v1/deposits", depositRequest{Amount: "500"}, asAdmin())
	require.Equal(t, http.StatusOK, rec.Code)
	h.clock.Advance(time.Second)

	rec = h.do(http.MethodPost, "/v1/settlements/alice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var settled amountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settled))
	assert.Equal(t, "500", settled.Amount)

	rec = h.do(http.MethodPost, "/v1/claims/alice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var claimed amountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claimed))
	assert.Equal(t, "500", claimed.Amount)

	rec = h.do(http.MethodGet, "/v1/holders/alice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var holder holderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holder))
	assert.Equal(t, "500", holder.YieldAccrued)
	assert.Equal(t, "500", holder.YieldWithdrawn)
	assert.Equal(t, "0", holder.YieldClaimable)
}

func TestBalanceChangeEndpoint(t *testing.T) {
	h := newTestServer(t)

	rec := h.do(http.MethodPost, "/v1/balance-changes", balanceChangeRequest{
		To:     "alice",
		Amount: "250",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	h.token.Apply("", "alice", sdkmath.NewInt(250))

	rec = h.do(http.MethodGet, "/v1/holders/alice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var holder holderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holder))
	assert.Equal(t, "250", holder.Balance)

	rec = h.do(http.MethodPost, "/v1/balance-changes", balanceChangeRequest{
		From:   "alice",
		To:     "bob",
		Amount: "-1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIntermediaryEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := h.do(http.MethodPost, "/v1/intermediaries/venue", nil, asAdmin())
	require.Equal(t, http.StatusOK, rec.Code)

	// Registering the same address twice conflicts.
	rec = h.do(http.MethodPost, "/v1/intermediaries/venue", nil, asAdmin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/v1/intermediaries/venue/orders", pendingOrderRequest{
		Beneficiary: "maker",
		Amount:      "25",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/v1/intermediaries/venue", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inter intermediaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inter))
	assert.Equal(t, "maker", inter.Beneficiary)
	assert.Equal(t, "25", inter.Pending)

	// Unregistering with pending attribution conflicts.
	rec = h.do(http.MethodDelete, "/v1/intermediaries/venue", nil, asAdmin())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/v1/intermediaries/venue/orders/release", pendingOrderRequest{
		Beneficiary: "maker",
		Amount:      "25",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodDelete, "/v1/intermediaries/venue", nil, asAdmin())
	assert.Equal(t, http.StatusOK, rec.Code)

	// Orders from an unregistered address are rejected.
	rec = h.do(http.MethodPost, "/v1/intermediaries/nobody/orders", pendingOrderRequest{
		Beneficiary: "maker",
		Amount:      "1",
	}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueryEndpoints(t *testing.T) {
	h := newTestServer(t)

	rec := h.do(http.MethodGet, "/v1/holders/nobody", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/v1/stats", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/v1/supply", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var supply supplyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &supply))
	assert.Equal(t, "0", supply.TotalBalanceSeconds)

	rec = h.do(http.MethodGet, "/v1/deposits/12345", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/healthcheck", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
