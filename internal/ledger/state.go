package ledger

import (
	sdkmath "cosmossdk.io/math"
)

// SupplyState is the global supply clock: the cumulative balance-seconds
// accrued by all holders together, advanced lazily whenever an operation
// observes a later timestamp. TotalBalanceSeconds never decreases.
type SupplyState struct {
	TotalBalanceSeconds sdkmath.Int
	LastTimestamp       int64
}

// DepositRecord is one coalesced yield injection. Records form a
// backward-linked chain keyed by unix-second timestamp: PrevTimestamp
// points at the record finalized before this one and is strictly smaller
// than the record's own timestamp. A record is immutable once a later
// record exists; the newest record may still absorb deposits landing in
// the same second.
type DepositRecord struct {
	Amount sdkmath.Int

	// SupplySnapshot is the value of SupplyState.TotalBalanceSeconds at
	// the moment this record was (last) finalized. The difference between
	// two adjacent snapshots is the balance-seconds accrued by all holders
	// between the two deposits, the denominator of the proportional split.
	SupplySnapshot sdkmath.Int

	PrevTimestamp int64
}

// DepositHistory is the append-only deposit chain. It is never pruned:
// a holder that has not settled in a long time still needs every record
// back to its last settlement point.
type DepositHistory struct {
	LastTimestamp int64
	Records       map[int64]*DepositRecord
}

var zeroRecord = DepositRecord{
	Amount:         sdkmath.ZeroInt(),
	SupplySnapshot: sdkmath.ZeroInt(),
}

// At returns the record finalized at the given timestamp. A timestamp
// with no record (including zero, the root of the chain) observes a zero
// record, which terminates any backward walk.
func (h *DepositHistory) At(timestamp int64) DepositRecord {
	if rec, ok := h.Records[timestamp]; ok {
		return *rec
	}
	return zeroRecord
}

// HolderState is the per-holder accrual accounting. Entries are created
// lazily on the first balance change and never deleted. BalanceSeconds,
// YieldAccrued and YieldWithdrawn never decrease, and YieldWithdrawn
// never exceeds YieldAccrued.
type HolderState struct {
	Address string

	// Balance mirrors the token ledger's balance for this holder as of
	// LastBalanceTimestamp.
	Balance sdkmath.Int

	// BalanceSeconds integrates Balance over time up to
	// LastBalanceTimestamp.
	BalanceSeconds sdkmath.Int

	YieldAccrued   sdkmath.Int
	YieldWithdrawn sdkmath.Int

	LastBalanceTimestamp int64

	// LastSettledBalanceSeconds is the value of BalanceSeconds at the most
	// recent deposit that was fully credited to this holder.
	LastSettledBalanceSeconds sdkmath.Int
}

func newHolderState(address string) *HolderState {
	return &HolderState{
		Address:                   address,
		Balance:                   sdkmath.ZeroInt(),
		BalanceSeconds:            sdkmath.ZeroInt(),
		YieldAccrued:              sdkmath.ZeroInt(),
		YieldWithdrawn:            sdkmath.ZeroInt(),
		LastSettledBalanceSeconds: sdkmath.ZeroInt(),
	}
}

// clone returns a deep copy used to stage all-or-nothing operations.
func (h *HolderState) clone() *HolderState {
	if h == nil {
		return nil
	}
	cp := *h
	return &cp
}

func (h *HolderState) restore(from *HolderState) {
	if h == nil || from == nil {
		return
	}
	*h = *from
}

// IntermediaryState tracks an account that holds tokens on behalf of a
// beneficiary, e.g. an exchange venue holding maker funds. Pending is
// the amount currently attributed to the beneficiary while in the
// intermediary's custody; the association is cleared only once Pending
// returns to zero.
type IntermediaryState struct {
	Address     string
	Beneficiary string
	Pending     sdkmath.Int
}

// State is the full mutable state of the accrual ledger. It is owned by
// the service and passed to the engine by reference; nothing outside the
// ledger package mutates it directly.
type State struct {
	Supply         SupplyState
	Deposits       DepositHistory
	Holders        map[string]*HolderState
	Intermediaries map[string]*IntermediaryState
}

func NewState() *State {
	return &State{
		Supply: SupplyState{
			TotalBalanceSeconds: sdkmath.ZeroInt(),
		},
		Deposits: DepositHistory{
			Records: make(map[int64]*DepositRecord),
		},
		Holders:        make(map[string]*HolderState),
		Intermediaries: make(map[string]*IntermediaryState),
	}
}

// holder returns the entry for address, creating it lazily.
func (s *State) holder(address string) *HolderState {
	h, ok := s.Holders[address]
	if !ok {
		h = newHolderState(address)
		s.Holders[address] = h
	}
	return h
}
