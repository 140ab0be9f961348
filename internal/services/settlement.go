package services

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
	"github.com/yieldlabs-io/yield-ledger/internal/types"
)

// Settle credits the holder with all yield accrued since its last
// settlement and returns the credited amount. Anyone may trigger a
// settlement; it only ever moves value toward the holder (or its
// delegated beneficiary).
func (s *Service) Settle(ctx context.Context, address string) (payout sdkmath.Int, err error) {
	start := time.Now()
	defer func() { recordOp("settle", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	payout, err = s.ledger.Settle(ctx, address, now)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	if err = s.persistHolders(ctx, address, s.beneficiaryAddr(address)); err != nil {
		return sdkmath.ZeroInt(), err
	}

	if payout.IsPositive() {
		s.publishSettlement(ctx, types.EventYieldSettled, address, payout, now)
	}

	return payout, nil
}

// Claim settles the holder and pays out everything accrued but not yet
// withdrawn through the treasury. The ledger rolls the whole claim back
// if the treasury transfer fails, so nothing is marked withdrawn unless
// the value actually moved.
func (s *Service) Claim(ctx context.Context, address string) (paid sdkmath.Int, err error) {
	start := time.Now()
	defer func() { recordOp("claim", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	paid, err = s.ledger.Claim(ctx, address, now, s.treasury.MoveOut)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	if err = s.persistHolders(ctx, address, s.beneficiaryAddr(address)); err != nil {
		return sdkmath.ZeroInt(), err
	}

	if paid.IsPositive() {
		metrics.IncClaimsTotal()
		s.publishSettlement(ctx, types.EventYieldClaimed, address, paid, now)
		log.Ctx(ctx).Info().
			Str("address", address).
			Stringer("amount", paid).
			Msg("Yield claim paid out")
	}

	return paid, nil
}

// publishSettlement emits a downstream event on a best-effort basis.
// The ledger operation has already committed, so a publish failure is
// logged and counted but never unwinds the operation.
func (s *Service) publishSettlement(
	ctx context.Context, eventType types.EventTypes, address string, amount sdkmath.Int, timestamp int64,
) {
	if s.queueManager == nil {
		return
	}
	event := types.SettlementEvent{
		EventType: eventType.String(),
		Address:   address,
		Amount:    amount.String(),
		Timestamp: timestamp,
	}
	if err := s.queueManager.PublishSettlementEvent(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("event_type", eventType.String()).
			Str("address", address).
			Msg("Failed to publish settlement event")
	}
}
