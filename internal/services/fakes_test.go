package services

import (
	"context"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/yieldlabs-io/yield-ledger/internal/config"
	"github.com/yieldlabs-io/yield-ledger/testutil"
)

const admin = "admin"

type svcHarness struct {
	t        *testing.T
	ctx      context.Context
	db       *testutil.InMemoryDb
	token    *testutil.FakeToken
	treasury *testutil.FakeTreasury
	clock    *clockwork.FakeClock
	svc      *Service
}

var testEpoch = time.Unix(1_700_000_000, 0).UTC()

func newTestService(t *testing.T) *svcHarness {
	t.Helper()

	cfg := &config.Config{
		Poller: config.PollerConfig{StatsPollingInterval: time.Minute},
	}
	database := testutil.NewInMemoryDb()
	token := testutil.NewFakeToken()
	treasury := &testutil.FakeTreasury{}
	auth := &testutil.FakeAuth{Authorized: map[string]bool{admin: true}}
	clock := clockwork.NewFakeClockAt(testEpoch)

	svc := NewService(cfg, database, token, treasury, auth, nil).WithClock(clock)
	require.NoError(t, svc.Bootstrap(context.Background()))

	return &svcHarness{
		t:        t,
		ctx:      context.Background(),
		db:       database,
		token:    token,
		treasury: treasury,
		clock:    clock,
		svc:      svc,
	}
}

func (h *svcHarness) advance(seconds int64) {
	h.clock.Advance(time.Duration(seconds) * time.Second)
}

// transfer fires the balance hook at the current fake-clock second and
// then applies the transfer to the fake token, mirroring the real hook
// ordering.
func (h *svcHarness) transfer(from, to string, amount int64) {
	h.t.Helper()
	amt := sdkmath.NewInt(amount)
	require.NoError(h.t, h.svc.ApplyBalanceChange(h.ctx, from, to, amt, 0))
	h.token.Apply(from, to, amt)
}

func (h *svcHarness) mint(to string, amount int64) {
	h.t.Helper()
	h.transfer("", to, amount)
}

func (h *svcHarness) deposit(amount int64) {
	h.t.Helper()
	require.NoError(h.t, h.svc.Deposit(h.ctx, admin, sdkmath.NewInt(amount)))
}
