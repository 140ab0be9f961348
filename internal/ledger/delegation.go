package ledger

import (
	sdkmath "cosmossdk.io/math"
)

// RegisterIntermediary flags an address as holding tokens on behalf of
// beneficiaries. Authorization is the service layer's concern.
func (l *Ledger) RegisterIntermediary(address string) error {
	if address == "" {
		return ErrInvalidAddress
	}
	if _, ok := l.state.Intermediaries[address]; ok {
		return ErrAlreadyIntermediary
	}

	l.state.Intermediaries[address] = &IntermediaryState{
		Address: address,
		Pending: sdkmath.ZeroInt(),
	}
	return nil
}

// UnregisterIntermediary removes an intermediary flag. An intermediary
// with a nonzero pending counter still owes attribution to a beneficiary
// and cannot be unregistered.
func (l *Ledger) UnregisterIntermediary(address string) error {
	inter, ok := l.state.Intermediaries[address]
	if !ok {
		return ErrNotIntermediary
	}
	if inter.Pending.IsPositive() {
		return ErrPendingNotCleared
	}

	delete(l.state.Intermediaries, address)
	return nil
}

// RegisterPendingOrder attributes amount of the calling intermediary's
// holdings to beneficiary. Only a registered intermediary may call it,
// and it may not re-point at a different beneficiary while tokens are
// still attributed to the current one.
func (l *Ledger) RegisterPendingOrder(caller, beneficiary string, amount sdkmath.Int) error {
	inter, ok := l.state.Intermediaries[caller]
	if !ok {
		return ErrNotIntermediary
	}
	if beneficiary == "" {
		return ErrInvalidAddress
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if inter.Pending.IsPositive() && inter.Beneficiary != beneficiary {
		return ErrBeneficiaryMismatch
	}

	inter.Beneficiary = beneficiary
	inter.Pending = inter.Pending.Add(amount)
	return nil
}

// ReleasePendingOrder releases amount of the attribution previously
// registered for beneficiary. Releasing more than is tracked is a defect
// in the caller and fails without touching state; releasing the final
// token clears the beneficiary association.
func (l *Ledger) ReleasePendingOrder(caller, beneficiary string, amount sdkmath.Int) error {
	inter, ok := l.state.Intermediaries[caller]
	if !ok {
		return ErrNotIntermediary
	}
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if inter.Beneficiary != beneficiary {
		return ErrBeneficiaryMismatch
	}
	if inter.Pending.LT(amount) {
		return ErrPendingUnderflow
	}

	inter.Pending = inter.Pending.Sub(amount)
	if inter.Pending.IsZero() {
		inter.Beneficiary = ""
	}
	return nil
}
