package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"railhook/pkg/platform/sentinel"
)

// HTTPClient talks to the internal ledger API. It implements both Service and
// AccountLookup.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) FindByAuthenticationCode(ctx context.Context, authenticationCode string) (*Record, error) {
	var record Record
	path := "/internal/transactions/" + url.PathEscape(authenticationCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) FindByReference(ctx context.Context, reference string) (*Record, error) {
	var record Record
	path := "/internal/transactions/by-reference/" + url.PathEscape(reference)
	if err := c.do(ctx, http.MethodGet, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) CreateFromWebhook(ctx context.Context, params CreateParams) (*Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodPost, "/internal/transactions/webhook", params, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) UpdateStatus(ctx context.Context, authenticationCode string, status Status) error {
	path := "/internal/transactions/" + url.PathEscape(authenticationCode) + "/status"
	body := map[string]Status{"status": status}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *HTTPClient) UpdateFromWebhook(ctx context.Context, params UpdateParams) error {
	path := "/internal/transactions/" + url.PathEscape(params.AuthenticationCode) + "/webhook"
	return c.do(ctx, http.MethodPatch, path, params, nil)
}

func (c *HTTPClient) FindByNumber(ctx context.Context, accountNumber string) (*Account, error) {
	var account Account
	path := "/internal/accounts/" + url.PathEscape(accountNumber)
	if err := c.do(ctx, http.MethodGet, path, nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, sentinel.ErrNotFound)
	case resp.StatusCode >= 400:
		return fmt.Errorf("%s %s: ledger responded %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
