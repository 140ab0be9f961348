package services

import (
	"context"
	"errors"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/yieldlabs-io/yield-ledger/internal/ledger"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
	"github.com/yieldlabs-io/yield-ledger/internal/types"
)

// ApplyBalanceChange applies a pre-transfer notification from the token
// ledger: both sides are settled against the deposit history and then
// re-based on their post-transfer balances. The empty address marks the
// mint/burn side. A zero timestamp means the change happens now.
func (s *Service) ApplyBalanceChange(ctx context.Context, from, to string, amount sdkmath.Int, timestamp int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := timestamp
	if now == 0 {
		now = s.now()
	}

	if err := s.ledger.OnBalanceChange(ctx, from, to, amount, now); err != nil {
		return err
	}

	if err := s.persistSupply(ctx); err != nil {
		return err
	}
	if err := s.persistHolders(ctx, from, to, s.beneficiaryAddr(from), s.beneficiaryAddr(to)); err != nil {
		return err
	}
	if err := s.persistIntermediary(ctx, from); err != nil {
		return err
	}
	return s.persistIntermediary(ctx, to)
}

// ProcessBalanceChangeEvent is the queue handler for balance events. A
// returned error requeues the delivery, so events the ledger can never
// accept (an unparsable amount, a redelivery that fell behind newer
// state) are dropped with a log line instead.
func (s *Service) ProcessBalanceChangeEvent(ctx context.Context, event types.BalanceChangeEvent) error {
	start := time.Now()
	err := s.processBalanceChangeEvent(ctx, event)
	metrics.RecordBalanceEventProcessingDuration(time.Since(start), event.EventType, err != nil)
	return err
}

func (s *Service) processBalanceChangeEvent(ctx context.Context, event types.BalanceChangeEvent) error {
	amount, ok := sdkmath.NewIntFromString(event.Amount)
	if !ok {
		log.Ctx(ctx).Error().
			Str("amount", event.Amount).
			Str("from", event.From).
			Str("to", event.To).
			Msg("Dropping balance event with unparsable amount")
		return nil
	}

	err := s.ApplyBalanceChange(ctx, event.From, event.To, amount, event.Timestamp)
	if errors.Is(err, ledger.ErrStaleTimestamp) {
		log.Ctx(ctx).Warn().
			Int64("timestamp", event.Timestamp).
			Str("from", event.From).
			Str("to", event.To).
			Msg("Dropping balance event delivered behind newer state")
		return nil
	}
	return err
}
