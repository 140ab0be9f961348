package ledger

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// scaleFactor is the fixed-point multiplier applied before the
// proportional-split division so that integer division does not shed
// precision. Intermediate products are arbitrary precision, so the large
// scale cannot overflow.
var scaleFactor = sdkmath.NewIntWithDecimal(1, 36)

// Settle computes and commits all yield the holder is entitled to, up to
// the most recent fully processable deposit, and returns the amount
// credited. Repeated calls with no new deposits are no-ops.
//
// When the newest deposit is from the current second the whole
// settlement is deferred: a deposit landing in the same second as an
// earlier settlement, followed by another deposit in that second, would
// otherwise strand the later deposit's share for already-settled
// holders. Callers pick up the full amount by settling again in a later
// second. This deferral is a deliberate fairness rule; do not remove it.
func (l *Ledger) Settle(ctx context.Context, address string, now int64) (sdkmath.Int, error) {
	if address == "" {
		return sdkmath.ZeroInt(), ErrInvalidAddress
	}

	holder, ok := l.state.Holders[address]
	if !ok {
		// Never held a balance; nothing to settle and nothing to create.
		return sdkmath.ZeroInt(), nil
	}

	payout := l.settle(holder, now)
	l.credit(holder, payout)

	return payout, nil
}

// settle runs the accrual walk and commits the holder's balance-seconds
// bookkeeping, returning the computed payout without crediting it. The
// caller decides whether the payout lands on the holder itself or on a
// delegated beneficiary.
func (l *Ledger) settle(holder *HolderState, now int64) sdkmath.Int {
	last := l.state.Deposits.LastTimestamp
	baseline := holder.LastBalanceTimestamp

	// Skip conditions: newest deposit is from the current second (see the
	// deferral note on Settle), the holder never held a balance, or the
	// holder is already settled past the newest deposit.
	if last == now || baseline == 0 || last < baseline {
		return sdkmath.ZeroInt()
	}

	// The holder's balance has been flat since baseline (any change would
	// have settled first), so its balance-seconds through the newest
	// deposit extend linearly.
	extended := holder.BalanceSeconds.Add(holder.Balance.MulRaw(last - baseline))

	// remaining peels off the holder's contribution interval by interval
	// as the walk moves backward, so that when the walk reaches the
	// interval containing the holder's last settlement it holds the
	// holder's balance-seconds as of that interval's end.
	remaining := extended
	accumulator := sdkmath.ZeroInt()

	for cursor := last; cursor > baseline; {
		rec := l.state.Deposits.At(cursor)
		if rec.Amount.IsZero() {
			break
		}

		prev := rec.PrevTimestamp
		intervalTotal := rec.SupplySnapshot.Sub(l.state.Deposits.At(prev).SupplySnapshot)

		if prev > baseline {
			// The whole interval postdates the holder's last settlement:
			// its contribution is exactly balance x interval length.
			contribution := holder.Balance.MulRaw(cursor - prev)
			remaining = remaining.Sub(contribution)
			if intervalTotal.IsPositive() {
				accumulator = accumulator.Add(
					rec.Amount.Mul(scaleFactor).Mul(contribution).Quo(intervalTotal),
				)
			}
			cursor = prev
			continue
		}

		// Tail interval: only the slice since the holder's last settlement
		// counts, which is everything not yet peeled off minus what was
		// already settled.
		if intervalTotal.IsPositive() {
			slice := remaining.Sub(holder.LastSettledBalanceSeconds)
			accumulator = accumulator.Add(
				rec.Amount.Mul(scaleFactor).Mul(slice).Quo(intervalTotal),
			)
		}
		break
	}

	holder.BalanceSeconds = extended
	holder.LastSettledBalanceSeconds = extended
	holder.LastBalanceTimestamp = last

	return accumulator.Quo(scaleFactor)
}

// credit applies a settlement payout. Payouts computed for a registered
// intermediary flow to its associated beneficiary; the intermediary's own
// accrual is left untouched.
func (l *Ledger) credit(holder *HolderState, payout sdkmath.Int) {
	if payout.IsZero() {
		return
	}

	target := holder
	if inter, ok := l.state.Intermediaries[holder.Address]; ok && inter.Beneficiary != "" {
		target = l.state.holder(inter.Beneficiary)
	}
	target.YieldAccrued = target.YieldAccrued.Add(payout)
}

// beneficiaryOf returns the holder entry a settlement of address would
// credit, when that differs from address itself.
func (l *Ledger) beneficiaryOf(address string) *HolderState {
	inter, ok := l.state.Intermediaries[address]
	if !ok || inter.Beneficiary == "" {
		return nil
	}
	return l.state.Holders[inter.Beneficiary]
}

// Claim settles the holder and pays out everything accrued but not yet
// withdrawn through moveOut. A zero owed amount is an idempotent no-op.
// If the external transfer fails the entire claim, settlement included,
// is rolled back: nothing may be marked withdrawn unless the value truly
// moved.
func (l *Ledger) Claim(
	ctx context.Context,
	address string,
	now int64,
	moveOut func(ctx context.Context, to string, amount sdkmath.Int) error,
) (sdkmath.Int, error) {
	if address == "" {
		return sdkmath.ZeroInt(), ErrInvalidAddress
	}

	holder, ok := l.state.Holders[address]
	if !ok {
		return sdkmath.ZeroInt(), nil
	}

	savedHolder := holder.clone()
	savedBeneficiary := l.beneficiaryOf(address).clone()

	payout := l.settle(holder, now)
	l.credit(holder, payout)

	owed := holder.YieldAccrued.Sub(holder.YieldWithdrawn)
	if owed.IsZero() {
		return sdkmath.ZeroInt(), nil
	}

	holder.YieldWithdrawn = holder.YieldAccrued

	if err := moveOut(ctx, address, owed); err != nil {
		holder.restore(savedHolder)
		if beneficiary := l.beneficiaryOf(address); beneficiary != nil {
			if savedBeneficiary != nil {
				beneficiary.restore(savedBeneficiary)
			} else {
				// credit created the beneficiary entry during this claim.
				delete(l.state.Holders, beneficiary.Address)
			}
		}
		return sdkmath.ZeroInt(), &TransferError{Op: "claim", Err: err}
	}

	return owed, nil
}
