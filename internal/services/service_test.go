package services

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
	"github.com/yieldlabs-io/yield-ledger/internal/types"
	"github.com/yieldlabs-io/yield-ledger/testutil"
)

func TestDeposit_MovesValueIntoCustodyAndPersists(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.deposit(500)

	require.Len(t, h.treasury.MovedIn, 1)
	assert.Equal(t, admin, h.treasury.MovedIn[0].Account)
	assert.Equal(t, "500", h.treasury.MovedIn[0].Amount.String())

	depositAt := testEpoch.Unix() + 10
	doc, ok := h.db.Deposits[depositAt]
	require.True(t, ok)
	assert.Equal(t, "500", doc.Amount)
	assert.Equal(t, "1000", doc.SupplySnapshot)
	assert.Equal(t, int64(0), doc.PrevTimestamp)

	require.NotNil(t, h.db.Supply)
	assert.Equal(t, depositAt, h.db.Supply.LastDepositTimestamp)
}

func TestDeposit_RejectsUnauthorizedCaller(t *testing.T) {
	h := newTestService(t)

	err := h.svc.Deposit(h.ctx, "mallory", sdkmath.NewInt(100))
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, h.treasury.MovedIn)
	assert.Empty(t, h.db.Deposits)
}

func TestDeposit_ZeroIsNoop(t *testing.T) {
	h := newTestService(t)

	require.NoError(t, h.svc.Deposit(h.ctx, admin, sdkmath.ZeroInt()))
	assert.Empty(t, h.treasury.MovedIn)
	assert.Empty(t, h.db.Deposits)
}

func TestSettleAndClaim_EndToEnd(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.deposit(500)
	h.advance(1)

	payout, err := h.svc.Settle(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "500", payout.String())

	holderDoc, ok := h.db.Holders["alice"]
	require.True(t, ok)
	assert.Equal(t, "500", holderDoc.YieldAccrued)
	assert.Equal(t, "0", holderDoc.YieldWithdrawn)

	paid, err := h.svc.Claim(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "500", paid.String())
	require.Len(t, h.treasury.MovedOut, 1)
	assert.Equal(t, "alice", h.treasury.MovedOut[0].Account)
	assert.Equal(t, "500", h.treasury.MovedOut[0].Amount.String())

	assert.Equal(t, "500", h.db.Holders["alice"].YieldWithdrawn)

	// Nothing new accrued, so a second claim pays nothing.
	paid, err = h.svc.Claim(h.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, paid.IsZero())
	assert.Len(t, h.treasury.MovedOut, 1)
}

func TestClaim_TreasuryFailureLeavesNothingWithdrawn(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.deposit(500)
	h.advance(1)

	h.treasury.FailNext = true
	_, err := h.svc.Claim(h.ctx, "alice")
	require.Error(t, err)
	var transferErr *ledger.TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.Empty(t, h.treasury.MovedOut)

	holder := h.svc.GetHolder("alice")
	require.NotNil(t, holder)
	assert.True(t, holder.YieldWithdrawn.IsZero())

	// Once the treasury recovers the full amount is still claimable.
	paid, err := h.svc.Claim(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "500", paid.String())
}

func TestApplyBalanceChange_PersistsBothSides(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(5)
	h.transfer("alice", "bob", 40)

	aliceDoc, ok := h.db.Holders["alice"]
	require.True(t, ok)
	assert.Equal(t, "60", aliceDoc.Balance)

	bobDoc, ok := h.db.Holders["bob"]
	require.True(t, ok)
	assert.Equal(t, "40", bobDoc.Balance)

	require.NotNil(t, h.db.Supply)
	assert.Equal(t, testEpoch.Unix()+5, h.db.Supply.LastTimestamp)
}

func TestProcessBalanceChangeEvent_DropsUnparsableAmount(t *testing.T) {
	h := newTestService(t)

	err := h.svc.ProcessBalanceChangeEvent(h.ctx, types.BalanceChangeEvent{
		EventType: types.EventBalanceChange.String(),
		From:      "",
		To:        "alice",
		Amount:    "not-a-number",
	})
	require.NoError(t, err)
	assert.Nil(t, h.svc.GetHolder("alice"))
}

func TestProcessBalanceChangeEvent_AppliesUsingEventTimestamp(t *testing.T) {
	h := newTestService(t)

	ts := testEpoch.Unix() + 30
	err := h.svc.ProcessBalanceChangeEvent(h.ctx, types.BalanceChangeEvent{
		EventType: types.EventBalanceChange.String(),
		From:      "",
		To:        "alice",
		Amount:    "250",
		Timestamp: ts,
	})
	require.NoError(t, err)

	holder := h.svc.GetHolder("alice")
	require.NotNil(t, holder)
	assert.Equal(t, "250", holder.Balance.String())
	assert.Equal(t, ts, holder.LastBalanceTimestamp)
}

func TestProcessBalanceChangeEvent_DropsStaleRedelivery(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.transfer("alice", "bob", 40)

	// A redelivery stamped before the applied transfer can never be
	// accepted; requeueing it would loop forever.
	err := h.svc.ProcessBalanceChangeEvent(h.ctx, types.BalanceChangeEvent{
		EventType: types.EventBalanceChange.String(),
		From:      "alice",
		To:        "bob",
		Amount:    "40",
		Timestamp: testEpoch.Unix() + 5,
	})
	require.NoError(t, err)

	holder := h.svc.GetHolder("alice")
	require.NotNil(t, holder)
	assert.Equal(t, "60", holder.Balance.String())
}

func TestBootstrap_RestoresStateAcrossRestart(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.deposit(500)
	h.advance(1)

	payout, err := h.svc.Settle(h.ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "500", payout.String())

	// A fresh service over the same database picks up where the old one
	// stopped.
	restarted := NewService(h.svc.cfg, h.db, h.token, h.treasury, h.svc.auth, nil).WithClock(h.clock)
	require.NoError(t, restarted.Bootstrap(h.ctx))

	holder := restarted.GetHolder("alice")
	require.NotNil(t, holder)
	assert.Equal(t, "500", holder.YieldAccrued.String())
	assert.Equal(t, "100", holder.Balance.String())

	supply, lastDeposit := restarted.GetSupplyState()
	assert.Equal(t, "1000", supply.TotalBalanceSeconds.String())
	assert.Equal(t, testEpoch.Unix()+10, lastDeposit)

	// And the accrual walk continues seamlessly over the restored chain.
	h.advance(10)
	require.NoError(t, restarted.Deposit(h.ctx, admin, sdkmath.NewInt(300)))
	h.advance(1)

	payout, err = restarted.Settle(h.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "300", payout.String())
}

func TestIntermediaryLifecycle(t *testing.T) {
	h := newTestService(t)

	require.ErrorIs(t,
		h.svc.RegisterIntermediary(h.ctx, "mallory", "venue"),
		ErrUnauthorized,
	)

	require.NoError(t, h.svc.RegisterIntermediary(h.ctx, admin, "venue"))
	_, ok := h.db.Intermediaries["venue"]
	require.True(t, ok)

	h.mint("alice", 100)
	h.advance(5)
	h.transfer("alice", "venue", 60)

	venueDoc := h.db.Intermediaries["venue"]
	assert.Equal(t, "alice", venueDoc.Beneficiary)
	assert.Equal(t, "60", venueDoc.Pending)

	// Pending attribution blocks unregistration.
	require.ErrorIs(t,
		h.svc.UnregisterIntermediary(h.ctx, admin, "venue"),
		ledger.ErrPendingNotCleared,
	)

	h.advance(5)
	h.transfer("venue", "alice", 60)

	venueDoc = h.db.Intermediaries["venue"]
	assert.Equal(t, "", venueDoc.Beneficiary)
	assert.Equal(t, "0", venueDoc.Pending)

	require.NoError(t, h.svc.UnregisterIntermediary(h.ctx, admin, "venue"))
	_, ok = h.db.Intermediaries["venue"]
	assert.False(t, ok)
}

func TestPendingOrders_OnlyIntermediariesMayRegister(t *testing.T) {
	h := newTestService(t)

	err := h.svc.RegisterPendingOrder(h.ctx, "alice", "bob", sdkmath.NewInt(10))
	require.ErrorIs(t, err, ledger.ErrNotIntermediary)

	require.NoError(t, h.svc.RegisterIntermediary(h.ctx, admin, "venue"))
	require.NoError(t, h.svc.RegisterPendingOrder(h.ctx, "venue", "bob", sdkmath.NewInt(10)))
	assert.Equal(t, "10", h.db.Intermediaries["venue"].Pending)

	require.NoError(t, h.svc.ReleasePendingOrder(h.ctx, "venue", "bob", sdkmath.NewInt(10)))
	assert.Equal(t, "0", h.db.Intermediaries["venue"].Pending)
	assert.Equal(t, "", h.db.Intermediaries["venue"].Beneficiary)
}

func TestSettle_RandomHoldersNeverOverdistribute(t *testing.T) {
	h := newTestService(t)

	holders := make([]string, 8)
	for i := range holders {
		holders[i] = testutil.RandomAddress()
		h.mint(holders[i], testutil.RandomAmount(1_000).Int64())
		h.advance(testutil.RandomAmount(60).Int64())
	}

	h.advance(10)
	h.deposit(1_000_000)
	h.advance(1)

	distributed := sdkmath.ZeroInt()
	for _, address := range holders {
		payout, err := h.svc.Settle(h.ctx, address)
		require.NoError(t, err)
		distributed = distributed.Add(payout)
	}

	// Proportional splits round down per holder, so the sum never exceeds
	// the deposit and the dust is bounded by the holder count.
	deposit := sdkmath.NewInt(1_000_000)
	assert.True(t, distributed.LTE(deposit))
	assert.True(t, deposit.Sub(distributed).LT(sdkmath.NewInt(int64(len(holders)+1))))
}

func TestUpdateOverallStats(t *testing.T) {
	h := newTestService(t)

	h.mint("alice", 100)
	h.advance(10)
	h.deposit(500)
	h.advance(1)

	_, err := h.svc.Settle(h.ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, h.svc.updateOverallStats(h.ctx))

	require.NotNil(t, h.db.Stats)
	assert.Equal(t, "500", h.db.Stats.TotalDeposited)
	assert.Equal(t, "500", h.db.Stats.TotalAccrued)
	assert.Equal(t, "0", h.db.Stats.TotalWithdrawn)
	assert.Equal(t, int64(1), h.db.Stats.HolderCount)
}
