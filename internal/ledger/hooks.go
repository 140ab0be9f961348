package ledger

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// touch records a balance change for the holder at now. The holder must
// already be settled for its pre-change balance, otherwise the new
// balance would be retroactively credited for time it did not hold.
func (h *HolderState) touch(newBalance sdkmath.Int, now int64) {
	if h.LastBalanceTimestamp > 0 && now > h.LastBalanceTimestamp {
		h.BalanceSeconds = h.BalanceSeconds.Add(h.Balance.MulRaw(now - h.LastBalanceTimestamp))
	}
	h.Balance = newBalance
	h.LastBalanceTimestamp = now
}

// OnBalanceChange is the hook the token ledger fires before it finalizes
// a transfer of amount from -> to. The zero sentinel (empty address)
// marks mints and burns. Both sides are settled against the deposit
// history and then re-based on their post-transfer balances; transfers
// into or out of a registered intermediary additionally move the
// beneficiary attribution counters.
//
// Balance reads go through the token ledger, which has not applied the
// transfer yet, so the post-transfer balances are derived here.
func (l *Ledger) OnBalanceChange(ctx context.Context, from, to string, amount sdkmath.Int, now int64) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	// Holder baselines never run ahead of the supply clock. A change
	// observed behind the clock would drag a baseline back below an
	// already-settled deposit and credit that interval twice on the next
	// settlement, so it is rejected the same way a stale deposit is.
	if now < l.state.Supply.LastTimestamp {
		return ErrStaleTimestamp
	}

	// Validate the intermediary release up front so no state mutates on a
	// counter underflow.
	fromInter, fromIsInter := l.state.Intermediaries[from]
	if fromIsInter && fromInter.Pending.LT(amount) {
		return ErrPendingUnderflow
	}
	toInter, toIsInter := l.state.Intermediaries[to]
	if toIsInter && from != "" && toInter.Beneficiary != "" && toInter.Beneficiary != from && toInter.Pending.IsPositive() {
		return ErrBeneficiaryMismatch
	}

	// Read both sides before mutating anything: a failed balance read must
	// leave the ledger untouched.
	var fromBalance, toBalance sdkmath.Int
	var err error
	if from != "" {
		if fromBalance, err = l.token.BalanceOf(ctx, from); err != nil {
			return err
		}
	}
	if to != "" {
		if toBalance, err = l.token.BalanceOf(ctx, to); err != nil {
			return err
		}
	}

	if err := l.advanceSupplyClock(ctx, now); err != nil {
		return err
	}

	if from != "" {
		holder := l.state.holder(from)
		payout := l.settle(holder, now)
		l.credit(holder, payout)
		holder.touch(fromBalance.Sub(amount), now)
	}
	if to != "" {
		holder := l.state.holder(to)
		payout := l.settle(holder, now)
		l.credit(holder, payout)
		base := toBalance
		if to == from {
			// The from side already rebased this holder; the pre-read
			// balance is stale.
			base = holder.Balance
		}
		holder.touch(base.Add(amount), now)
	}

	if toIsInter && from != "" {
		toInter.Beneficiary = from
		toInter.Pending = toInter.Pending.Add(amount)
	}
	if fromIsInter {
		fromInter.Pending = fromInter.Pending.Sub(amount)
		if fromInter.Pending.IsZero() {
			fromInter.Beneficiary = ""
		}
	}

	return nil
}
