package treasuryclient

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

type TreasuryClientWithMetrics struct {
	client TreasuryInterface
}

func NewTreasuryClientWithMetrics(client TreasuryInterface) *TreasuryClientWithMetrics {
	return &TreasuryClientWithMetrics{client: client}
}

func (c *TreasuryClientWithMetrics) MoveIn(ctx context.Context, from string, amount sdkmath.Int) error {
	start := time.Now()
	err := c.client.MoveIn(ctx, from, amount)
	metrics.RecordClientLatency(time.Since(start), "treasury", "MoveIn", err != nil)
	return err
}

func (c *TreasuryClientWithMetrics) MoveOut(ctx context.Context, to string, amount sdkmath.Int) error {
	start := time.Now()
	err := c.client.MoveOut(ctx, to, amount)
	metrics.RecordClientLatency(time.Since(start), "treasury", "MoveOut", err != nil)
	return err
}

var _ TreasuryInterface = (*TreasuryClientWithMetrics)(nil)
