package services

import (
	"context"
	"math/big"

	sdkmath "cosmossdk.io/math"

	"github.com/yieldlabs-io/yield-ledger/internal/db/model"
	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
	"github.com/yieldlabs-io/yield-ledger/internal/utils/poller"
)

func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		s.cfg.Poller.StatsPollingInterval,
		metrics.RecordPollerDuration("overall_stats", s.updateOverallStats),
	)
	go statsPoller.Start(ctx)
}

// updateOverallStats aggregates ledger-wide totals from the in-memory
// state and pushes them to both the database and the metrics registry.
func (s *Service) updateOverallStats(ctx context.Context) error {
	s.mu.Lock()
	state := s.ledger.State()

	deposited := sdkmath.ZeroInt()
	for _, rec := range state.Deposits.Records {
		deposited = deposited.Add(rec.Amount)
	}

	accrued := sdkmath.ZeroInt()
	withdrawn := sdkmath.ZeroInt()
	for _, holder := range state.Holders {
		accrued = accrued.Add(holder.YieldAccrued)
		withdrawn = withdrawn.Add(holder.YieldWithdrawn)
	}

	holderCount := len(state.Holders)
	chainLength := len(state.Deposits.Records)
	s.mu.Unlock()

	doc := &model.OverallStatsDocument{
		ID:             model.OverallStatsID,
		TotalDeposited: deposited.String(),
		TotalAccrued:   accrued.String(),
		TotalWithdrawn: withdrawn.String(),
		HolderCount:    int64(holderCount),
		LastUpdated:    s.now(),
	}
	if err := s.db.UpsertOverallStats(ctx, doc); err != nil {
		return err
	}

	metrics.RecordOverallStats(
		intToFloat(deposited), intToFloat(accrued), intToFloat(withdrawn),
		holderCount, chainLength,
	)
	return nil
}

func intToFloat(v sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}
