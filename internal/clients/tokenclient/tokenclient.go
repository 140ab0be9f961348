package tokenclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"

	"github.com/yieldlabs-io/yield-ledger/internal/clients/client"
	"github.com/yieldlabs-io/yield-ledger/internal/config"
)

const (
	balancePath = "/v1/balances/"
	supplyPath  = "/v1/supply"
)

type TokenClient struct {
	httpClient *http.Client
	cfg        *config.TokenConfig
}

func NewTokenClient(cfg *config.TokenConfig) *TokenClient {
	return &TokenClient{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *TokenClient) GetBaseURL() string {
	return c.cfg.Endpoint
}

func (c *TokenClient) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *TokenClient) GetHttpClient() *http.Client {
	return c.httpClient
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

type supplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

func (c *TokenClient) BalanceOf(ctx context.Context, address string) (sdkmath.Int, error) {
	if address == "" {
		return sdkmath.Int{}, fmt.Errorf("empty address provided")
	}

	call := func() (sdkmath.Int, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         balancePath + url.PathEscape(address),
			TemplatePath: balancePath + "{address}",
		}

		resp, err := client.SendRequest[empty, balanceResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return sdkmath.Int{}, err
		}

		balance, ok := sdkmath.NewIntFromString(resp.Balance)
		if !ok {
			return sdkmath.Int{}, fmt.Errorf("malformed balance %q for %s", resp.Balance, address)
		}
		return balance, nil
	}

	result, err := clientCallWithRetry(ctx, call, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to get balance of %s: %w", address, err)
	}
	return result, nil
}

func (c *TokenClient) TotalSupply(ctx context.Context) (sdkmath.Int, error) {
	call := func() (sdkmath.Int, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         supplyPath,
			TemplatePath: supplyPath,
		}

		resp, err := client.SendRequest[empty, supplyResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return sdkmath.Int{}, err
		}

		supply, ok := sdkmath.NewIntFromString(resp.TotalSupply)
		if !ok {
			return sdkmath.Int{}, fmt.Errorf("malformed total supply %q", resp.TotalSupply)
		}
		return supply, nil
	}

	result, err := clientCallWithRetry(ctx, call, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to get total supply: %w", err)
	}
	return result, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	attempts uint,
	interval time.Duration,
) (T, error) {
	if attempts == 0 {
		attempts = 1
	}
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(interval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
