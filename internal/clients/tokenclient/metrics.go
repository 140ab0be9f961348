package tokenclient

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

type TokenClientWithMetrics struct {
	client TokenInterface
}

func NewTokenClientWithMetrics(client TokenInterface) *TokenClientWithMetrics {
	return &TokenClientWithMetrics{client: client}
}

func (c *TokenClientWithMetrics) BalanceOf(ctx context.Context, address string) (sdkmath.Int, error) {
	start := time.Now()
	balance, err := c.client.BalanceOf(ctx, address)
	metrics.RecordClientLatency(time.Since(start), "token", "BalanceOf", err != nil)
	return balance, err
}

func (c *TokenClientWithMetrics) TotalSupply(ctx context.Context) (sdkmath.Int, error) {
	start := time.Now()
	supply, err := c.client.TotalSupply(ctx)
	metrics.RecordClientLatency(time.Since(start), "token", "TotalSupply", err != nil)
	return supply, err
}

var _ TokenInterface = (*TokenClientWithMetrics)(nil)
