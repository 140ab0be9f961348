package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yieldlabs-io/yield-ledger/internal/observability/metrics"
)

// HttpClient is implemented by the collaborator clients so SendRequest
// can share transport, timeout and metrics handling.
type HttpClient interface {
	GetBaseURL() string
	GetDefaultRequestTimeout() time.Duration
	GetHttpClient() *http.Client
}

type HttpClientOptions struct {
	Path string

	// TemplatePath is the path with parameters unexpanded, used as the
	// metrics label so cardinality stays bounded.
	TemplatePath string

	Headers map[string]string
}

type ErrorResponse struct {
	StatusCode int
	Body       string
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// SendRequest issues a JSON request against the client's base URL and
// decodes a JSON response. A nil input sends no body.
func SendRequest[I any, O any](
	ctx context.Context,
	c HttpClient,
	method string,
	opts *HttpClientOptions,
	input *I,
) (*O, error) {
	url := c.GetBaseURL() + opts.Path

	var body io.Reader
	if input != nil {
		payload, err := json.Marshal(input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	timeout := c.GetDefaultRequestTimeout()
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	stopTimer := metrics.StartClientRequestDurationTimer(c.GetBaseURL(), method, opts.TemplatePath)

	resp, err := c.GetHttpClient().Do(req)
	if err != nil {
		stopTimer(0)
		return nil, err
	}
	defer resp.Body.Close()
	stopTimer(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ErrorResponse{
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
		}
	}

	var out O
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}
