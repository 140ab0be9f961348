package ledger

import (
	"context"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIntermediary(t *testing.T) {
	_, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	assert.ErrorIs(t, led.RegisterIntermediary("venue"), ErrAlreadyIntermediary)
	assert.ErrorIs(t, led.RegisterIntermediary(""), ErrInvalidAddress)

	require.NoError(t, led.UnregisterIntermediary("venue"))
	assert.ErrorIs(t, led.UnregisterIntermediary("venue"), ErrNotIntermediary)
}

func TestUnregisterIntermediary_RequiresClearedPending(t *testing.T) {
	_, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	require.NoError(t, led.RegisterPendingOrder("venue", "maker", sdkmath.NewInt(10)))

	assert.ErrorIs(t, led.UnregisterIntermediary("venue"), ErrPendingNotCleared)

	require.NoError(t, led.ReleasePendingOrder("venue", "maker", sdkmath.NewInt(10)))
	require.NoError(t, led.UnregisterIntermediary("venue"))
}

func TestPendingOrders(t *testing.T) {
	_, led := newTestLedger(t)

	assert.ErrorIs(t, led.RegisterPendingOrder("venue", "maker", sdkmath.NewInt(5)), ErrNotIntermediary)

	require.NoError(t, led.RegisterIntermediary("venue"))
	require.NoError(t, led.RegisterPendingOrder("venue", "maker", sdkmath.NewInt(5)))
	require.NoError(t, led.RegisterPendingOrder("venue", "maker", sdkmath.NewInt(3)))

	inter := led.Intermediary("venue")
	require.NotNil(t, inter)
	assert.Equal(t, "maker", inter.Beneficiary)
	assert.Equal(t, int64(8), inter.Pending.Int64())

	// Re-pointing at another beneficiary while tokens are attributed fails.
	assert.ErrorIs(t, led.RegisterPendingOrder("venue", "other", sdkmath.NewInt(1)), ErrBeneficiaryMismatch)
	assert.ErrorIs(t, led.ReleasePendingOrder("venue", "other", sdkmath.NewInt(1)), ErrBeneficiaryMismatch)

	// Releasing more than tracked is a caller defect.
	assert.ErrorIs(t, led.ReleasePendingOrder("venue", "maker", sdkmath.NewInt(9)), ErrPendingUnderflow)
	assert.Equal(t, int64(8), led.Intermediary("venue").Pending.Int64())

	require.NoError(t, led.ReleasePendingOrder("venue", "maker", sdkmath.NewInt(8)))
	inter = led.Intermediary("venue")
	assert.True(t, inter.Pending.IsZero())
	assert.Empty(t, inter.Beneficiary)

	// With the counter back at zero the association may move on.
	require.NoError(t, led.RegisterPendingOrder("venue", "other", sdkmath.NewInt(2)))
	assert.Equal(t, "other", led.Intermediary("venue").Beneficiary)
}

func TestBalanceChange_TracksIntermediaryAttribution(t *testing.T) {
	h, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	h.mint("maker", 100, 1000)
	h.transfer("maker", "venue", 60, 2000)

	inter := led.Intermediary("venue")
	assert.Equal(t, "maker", inter.Beneficiary)
	assert.Equal(t, int64(60), inter.Pending.Int64())

	h.transfer("venue", "taker", 25, 3000)
	assert.Equal(t, int64(35), led.Intermediary("venue").Pending.Int64())

	h.transfer("venue", "taker", 35, 4000)
	inter = led.Intermediary("venue")
	assert.True(t, inter.Pending.IsZero())
	assert.Empty(t, inter.Beneficiary)
}

func TestBalanceChange_IntermediaryUnderflowAbortsUntouched(t *testing.T) {
	h, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	h.mint("maker", 100, 1000)
	h.transfer("maker", "venue", 10, 2000)

	makerBefore := *led.Holder("maker")
	venueBefore := *led.Holder("venue")
	supplyBefore := led.State().Supply

	err := led.OnBalanceChange(h.ctx, "venue", "taker", sdkmath.NewInt(11), 3000)

	assert.ErrorIs(t, err, ErrPendingUnderflow)
	assert.Equal(t, makerBefore, *led.Holder("maker"))
	assert.Equal(t, venueBefore, *led.Holder("venue"))
	assert.Equal(t, supplyBefore, led.State().Supply)
	assert.Equal(t, int64(10), led.Intermediary("venue").Pending.Int64())
}

func TestSettle_RedirectsIntermediaryYield(t *testing.T) {
	h, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	h.mint("maker", 100, 1000)
	h.transfer("maker", "venue", 100, 2000)
	h.deposit(400, 3000)

	h.settle("venue", 4000)

	// 100 balance-seconds-weighted second for maker (1000..2000), then the
	// venue holds everything (2000..3000): the venue's half flows to the
	// maker it holds for.
	assert.True(t, led.Holder("venue").YieldAccrued.IsZero())
	assert.Equal(t, int64(200), h.accrued("maker"))

	h.settle("maker", 4000)
	assert.Equal(t, int64(400), h.accrued("maker"))
}

func TestClaim_IntermediaryKeepsOwnWithdrawnSeparate(t *testing.T) {
	h, led := newTestLedger(t)

	require.NoError(t, led.RegisterIntermediary("venue"))
	h.mint("maker", 100, 1000)
	h.transfer("maker", "venue", 100, 2000)
	h.deposit(400, 3000)

	// Claiming for the venue settles it, which credits the maker; the
	// venue itself has nothing to withdraw.
	owed, err := led.Claim(h.ctx, "venue", 4000, func(context.Context, string, sdkmath.Int) error {
		t.Fatal("moveOut must not be called for a zero claim")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, owed.IsZero())
	assert.Equal(t, int64(200), h.accrued("maker"))
}
