package ledger

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// TokenLedger is the external fungible-token ledger the accrual engine
// reads balances from. The token layer owns transfers and supply; this
// service only observes them.
type TokenLedger interface {
	BalanceOf(ctx context.Context, address string) (sdkmath.Int, error)
	TotalSupply(ctx context.Context) (sdkmath.Int, error)
}

// Ledger is the yield-accrual engine. It owns the supply clock, the
// deposit history chain, per-holder accounting and the intermediary
// registry. It performs no I/O besides balance reads through the
// TokenLedger interface and is not safe for concurrent use; the service
// layer serializes every operation.
type Ledger struct {
	state *State
	token TokenLedger
}

func New(state *State, token TokenLedger) *Ledger {
	return &Ledger{
		state: state,
		token: token,
	}
}

// State exposes the underlying state for bootstrap and persistence.
func (l *Ledger) State() *State {
	return l.state
}

// Holder returns the holder entry for the given address, or nil if the
// address has never held a balance.
func (l *Ledger) Holder(address string) *HolderState {
	return l.state.Holders[address]
}

// Intermediary returns the intermediary entry for the given address, or
// nil if the address is not registered.
func (l *Ledger) Intermediary(address string) *IntermediaryState {
	return l.state.Intermediaries[address]
}

// DepositAt returns the deposit record finalized at the given timestamp,
// or nil if no deposit landed at that second.
func (l *Ledger) DepositAt(timestamp int64) *DepositRecord {
	return l.state.Deposits.Records[timestamp]
}

// advanceSupplyClock rolls the global balance-seconds accumulator forward
// to now, weighting the elapsed seconds by the current total supply. The
// accumulator never decreases; a stale now is ignored.
func (l *Ledger) advanceSupplyClock(ctx context.Context, now int64) error {
	supply := &l.state.Supply
	if now <= supply.LastTimestamp {
		return nil
	}

	totalSupply, err := l.token.TotalSupply(ctx)
	if err != nil {
		return err
	}

	elapsed := now - supply.LastTimestamp
	if supply.LastTimestamp > 0 {
		supply.TotalBalanceSeconds = supply.TotalBalanceSeconds.Add(totalSupply.MulRaw(elapsed))
	}
	supply.LastTimestamp = now

	return nil
}
