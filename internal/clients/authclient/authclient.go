package authclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/yieldlabs-io/yield-ledger/internal/clients/client"
	"github.com/yieldlabs-io/yield-ledger/internal/config"
)

const authorizationPath = "/v1/authorizations/"

type AuthClient struct {
	httpClient *http.Client
	cfg        *config.AuthConfig
}

func NewAuthClient(cfg *config.AuthConfig) *AuthClient {
	return &AuthClient{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *AuthClient) GetBaseURL() string {
	return c.cfg.Endpoint
}

func (c *AuthClient) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *AuthClient) GetHttpClient() *http.Client {
	return c.httpClient
}

type authorizationResponse struct {
	Caller     string `json:"caller"`
	Authorized bool   `json:"authorized"`
}

func (c *AuthClient) IsAuthorized(ctx context.Context, caller string) (bool, error) {
	if caller == "" {
		return false, nil
	}

	call := func() (bool, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         authorizationPath + url.PathEscape(caller),
			TemplatePath: authorizationPath + "{caller}",
		}

		resp, err := client.SendRequest[empty, authorizationResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return false, err
		}
		return resp.Authorized, nil
	}

	attempts := c.cfg.MaxRetryTimes
	if attempts == 0 {
		attempts = 1
	}
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check authorization for %s: %w", caller, err)
	}
	return result, nil
}
