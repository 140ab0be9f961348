package services

import (
	"context"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
)

// Read accessors return copies taken under the service mutex so callers
// never observe a half-applied operation.

// GetHolder returns the accrual accounting for address, or nil if the
// address has never held a balance.
func (s *Service) GetHolder(address string) *ledger.HolderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	holder := s.ledger.Holder(address)
	if holder == nil {
		return nil
	}
	cp := *holder
	return &cp
}

// GetIntermediary returns the registry entry for address, or nil if the
// address is not a registered intermediary.
func (s *Service) GetIntermediary(address string) *ledger.IntermediaryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	inter := s.ledger.Intermediary(address)
	if inter == nil {
		return nil
	}
	cp := *inter
	return &cp
}

// GetDepositRecord returns the deposit finalized at the given
// unix-second timestamp, or nil if no deposit landed at that second.
func (s *Service) GetDepositRecord(timestamp int64) *ledger.DepositRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.ledger.DepositAt(timestamp)
	if rec == nil {
		return nil
	}
	cp := *rec
	return &cp
}

// GetSupplyState returns the global supply clock and the timestamp of
// the newest deposit.
func (s *Service) GetSupplyState() (ledger.SupplyState, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.ledger.State()
	return state.Supply, state.Deposits.LastTimestamp
}

// GetOverallStats returns the most recently aggregated ledger totals.
func (s *Service) GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error) {
	return s.db.GetOverallStats(ctx)
}
