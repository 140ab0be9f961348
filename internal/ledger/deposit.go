package ledger

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// RecordDeposit appends a yield deposit of amount to the history at now.
// Deposits landing in the same second coalesce into a single record whose
// supply snapshot is refreshed to the just-advanced clock. A zero amount
// is a no-op. The deposited value must already be in custody; the service
// layer moves it in before calling this.
func (l *Ledger) RecordDeposit(ctx context.Context, amount sdkmath.Int, now int64) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if amount.IsZero() {
		return nil
	}

	hist := &l.state.Deposits
	if now < hist.LastTimestamp {
		return ErrStaleTimestamp
	}

	if err := l.advanceSupplyClock(ctx, now); err != nil {
		return err
	}
	snapshot := l.state.Supply.TotalBalanceSeconds

	if rec, ok := hist.Records[now]; ok {
		// Same-second coalescing: the newest record is still amendable.
		rec.Amount = rec.Amount.Add(amount)
		rec.SupplySnapshot = snapshot
		return nil
	}

	hist.Records[now] = &DepositRecord{
		Amount:         amount,
		SupplySnapshot: snapshot,
		PrevTimestamp:  hist.LastTimestamp,
	}
	hist.LastTimestamp = now

	return nil
}
