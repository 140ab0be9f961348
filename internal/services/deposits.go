package services

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

// Deposit injects yield value for distribution to current holders.
// Value moves into treasury custody before the deposit is recorded: a
// recorded deposit that was never funded would overpay every holder,
// while a funded transfer that fails to record is repaired by retrying.
func (s *Service) Deposit(ctx context.Context, caller string, amount sdkmath.Int) (err error) {
	start := time.Now()
	defer func() { recordOp("deposit", start, err) }()

	if err = s.authorize(ctx, caller); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if amount.IsNegative() {
		return ledger.ErrNegativeAmount
	}
	if amount.IsZero() {
		return nil
	}

	now := s.now()
	if err = s.treasury.MoveIn(ctx, caller, amount); err != nil {
		return &ledger.TransferError{Op: "deposit", Err: err}
	}

	if err = s.ledger.RecordDeposit(ctx, amount, now); err != nil {
		return err
	}

	if err = s.persistLatestDeposit(ctx); err != nil {
		return err
	}
	if err = s.persistSupply(ctx); err != nil {
		return err
	}

	metrics.IncDepositsTotal()
	log.Ctx(ctx).Info().
		Str("caller", caller).
		Stringer("amount", amount).
		Int64("timestamp", now).
		Msg("Yield deposit recorded")

	return nil
}

func (s *Service) authorize(ctx context.Context, caller string) error {
	ok, err := s.auth.IsAuthorized(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
