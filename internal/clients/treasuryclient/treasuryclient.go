package treasuryclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/yieldlabs-io/yield-ledger/internal/clients/client"
	"github.com/yieldlabs-io/yield-ledger/internal/config"
)

const (
	moveInPath  = "/v1/transfers/in"
	moveOutPath = "/v1/transfers/out"
)

// TreasuryClient performs value transfers. Transfers are deliberately not
// retried here: a timed-out transfer may have landed, and the ledger's
// all-or-nothing semantics let the caller simply re-run the operation
// once the treasury is reachable again.
type TreasuryClient struct {
	httpClient *http.Client
	cfg        *config.TreasuryConfig
}

func NewTreasuryClient(cfg *config.TreasuryConfig) *TreasuryClient {
	return &TreasuryClient{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *TreasuryClient) GetBaseURL() string {
	return c.cfg.Endpoint
}

func (c *TreasuryClient) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *TreasuryClient) GetHttpClient() *http.Client {
	return c.httpClient
}

type transferRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type transferResponse struct {
	TransferID string `json:"transfer_id"`
}

func (c *TreasuryClient) MoveIn(ctx context.Context, from string, amount sdkmath.Int) error {
	return c.transfer(ctx, moveInPath, from, amount)
}

func (c *TreasuryClient) MoveOut(ctx context.Context, to string, amount sdkmath.Int) error {
	return c.transfer(ctx, moveOutPath, to, amount)
}

func (c *TreasuryClient) transfer(ctx context.Context, path, account string, amount sdkmath.Int) error {
	if account == "" {
		return fmt.Errorf("empty account provided")
	}
	if !amount.IsPositive() {
		return fmt.Errorf("transfer amount must be positive (got %s)", amount)
	}

	opts := &client.HttpClientOptions{
		Path:         path,
		TemplatePath: path,
	}
	req := &transferRequest{
		Account: account,
		Amount:  amount.String(),
	}

	_, err := client.SendRequest[transferRequest, transferResponse](ctx, c, http.MethodPost, opts, req)
	if err != nil {
		return fmt.Errorf("treasury transfer failed: %w", err)
	}
	return nil
}
