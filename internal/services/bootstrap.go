package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/db"
	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
)

// Bootstrap rehydrates the in-memory ledger from the database. A fresh
// database yields an empty genesis state. Called once before any
// operation is served; it replaces the ledger wholesale, so it must not
// race with operations.
func (s *Service) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := ledger.NewState()

	supplyDoc, err := s.db.GetSupplyState(ctx)
	if err != nil && !db.IsNotFoundError(err) {
		return fmt.Errorf("failed to load supply state: %w", err)
	}
	if supplyDoc != nil {
		supply, err := supplyDoc.ToSupplyState()
		if err != nil {
			return err
		}
		state.Supply = supply
		state.Deposits.LastTimestamp = supplyDoc.LastDepositTimestamp
	}

	recordDocs, err := s.db.GetAllDepositRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deposit records: %w", err)
	}
	for _, doc := range recordDocs {
		rec, err := doc.ToDepositRecord()
		if err != nil {
			return err
		}
		state.Deposits.Records[doc.Timestamp] = rec
	}

	holderDocs, err := s.db.GetAllHolders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load holders: %w", err)
	}
	for _, doc := range holderDocs {
		holder, err := doc.ToHolderState()
		if err != nil {
			return err
		}
		state.Holders[holder.Address] = holder
	}

	interDocs, err := s.db.GetAllIntermediaries(ctx)
	if err != nil {
		return fmt.Errorf("failed to load intermediaries: %w", err)
	}
	for _, doc := range interDocs {
		inter, err := doc.ToIntermediaryState()
		if err != nil {
			return err
		}
		state.Intermediaries[inter.Address] = inter
	}

	s.ledger = ledger.New(state, s.token)

	log.Ctx(ctx).Info().
		Int("deposit_records", len(state.Deposits.Records)).
		Int("holders", len(state.Holders)).
		Int("intermediaries", len(state.Intermediaries)).
		Int64("last_deposit_timestamp", state.Deposits.LastTimestamp).
		Msg("Ledger state rehydrated")

	return nil
}
