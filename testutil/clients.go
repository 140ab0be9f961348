package testutil

import (
	"context"
	"errors"

	sdkmath "cosmossdk.io/math"
)

// FakeToken is an in-memory stand-in for the external token ledger. Its
// Apply helper is called after the balance hook fires, mirroring the
// real hook ordering where balances are read pre-transfer.
type FakeToken struct {
	Balances map[string]sdkmath.Int
	Supply   sdkmath.Int
}

func NewFakeToken() *FakeToken {
	return &FakeToken{
		Balances: make(map[string]sdkmath.Int),
		Supply:   sdkmath.ZeroInt(),
	}
}

func (f *FakeToken) BalanceOf(_ context.Context, address string) (sdkmath.Int, error) {
	if bal, ok := f.Balances[address]; ok {
		return bal, nil
	}
	return sdkmath.ZeroInt(), nil
}

func (f *FakeToken) TotalSupply(context.Context) (sdkmath.Int, error) {
	return f.Supply, nil
}

// Apply finalizes a transfer on the fake token. The empty address marks
// the mint/burn side.
func (f *FakeToken) Apply(from, to string, amount sdkmath.Int) {
	if from == "" {
		f.Supply = f.Supply.Add(amount)
	} else {
		f.Balances[from] = f.Balances[from].Sub(amount)
	}
	if to == "" {
		f.Supply = f.Supply.Sub(amount)
	} else {
		bal, ok := f.Balances[to]
		if !ok {
			bal = sdkmath.ZeroInt()
		}
		f.Balances[to] = bal.Add(amount)
	}
}

// TreasuryCall records one custody transfer observed by FakeTreasury.
type TreasuryCall struct {
	Account string
	Amount  sdkmath.Int
}

// FakeTreasury records custody movements. Setting FailNext makes the
// next call fail once, for exercising rollback paths.
type FakeTreasury struct {
	MovedIn  []TreasuryCall
	MovedOut []TreasuryCall
	FailNext bool
}

var ErrTreasuryDown = errors.New("treasury unavailable")

func (f *FakeTreasury) MoveIn(_ context.Context, from string, amount sdkmath.Int) error {
	if f.FailNext {
		f.FailNext = false
		return ErrTreasuryDown
	}
	f.MovedIn = append(f.MovedIn, TreasuryCall{Account: from, Amount: amount})
	return nil
}

func (f *FakeTreasury) MoveOut(_ context.Context, to string, amount sdkmath.Int) error {
	if f.FailNext {
		f.FailNext = false
		return ErrTreasuryDown
	}
	f.MovedOut = append(f.MovedOut, TreasuryCall{Account: to, Amount: amount})
	return nil
}

// FakeAuth authorizes exactly the callers present in the map.
type FakeAuth struct {
	Authorized map[string]bool
}

func (f *FakeAuth) IsAuthorized(_ context.Context, caller string) (bool, error) {
	return f.Authorized[caller], nil
}
