package services

import (
	"context"
	"time"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

// Persistence is write-behind: the in-memory ledger is the source of
// truth and every mutated document is upserted after the operation
// commits. Upserts are idempotent, so a crash between the commit and the
// writes is repaired by replaying the triggering event or request.

func (s *Service) persistSupply(ctx context.Context) error {
	state := s.ledger.State()
	doc := model.FromSupplyState(&state.Supply, state.Deposits.LastTimestamp)
	return s.db.UpsertSupplyState(ctx, doc)
}

func (s *Service) persistLatestDeposit(ctx context.Context) error {
	state := s.ledger.State()
	ts := state.Deposits.LastTimestamp
	rec, ok := state.Deposits.Records[ts]
	if !ok {
		return nil
	}
	return s.db.UpsertDepositRecord(ctx, model.FromDepositRecord(ts, rec))
}

// persistHolders upserts the holder entries for the given addresses,
// skipping empties, duplicates and addresses without an entry.
func (s *Service) persistHolders(ctx context.Context, addresses ...string) error {
	seen := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		if address == "" {
			continue
		}
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}

		holder := s.ledger.Holder(address)
		if holder == nil {
			continue
		}
		if err := s.db.UpsertHolder(ctx, model.FromHolderState(holder)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) persistIntermediary(ctx context.Context, address string) error {
	inter := s.ledger.Intermediary(address)
	if inter == nil {
		return nil
	}
	return s.db.UpsertIntermediary(ctx, model.FromIntermediaryState(inter))
}

// beneficiaryAddr returns the beneficiary currently associated with
// address, or empty when address is not a delegating intermediary.
func (s *Service) beneficiaryAddr(address string) string {
	inter := s.ledger.Intermediary(address)
	if inter == nil {
		return ""
	}
	return inter.Beneficiary
}

func recordOp(operation string, start time.Time, err error) {
	metrics.RecordLedgerOperationDuration(time.Since(start), operation, err != nil)
}
