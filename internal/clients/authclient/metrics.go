package authclient

import (
	"context"
	"time"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

type AuthClientWithMetrics struct {
	client AuthInterface
}

func NewAuthClientWithMetrics(client AuthInterface) *AuthClientWithMetrics {
	return &AuthClientWithMetrics{client: client}
}

func (c *AuthClientWithMetrics) IsAuthorized(ctx context.Context, caller string) (bool, error) {
	start := time.Now()
	ok, err := c.client.IsAuthorized(ctx, caller)
	metrics.RecordClientLatency(time.Since(start), "auth", "IsAuthorized", err != nil)
	return ok, err
}

var _ AuthInterface = (*AuthClientWithMetrics)(nil)
