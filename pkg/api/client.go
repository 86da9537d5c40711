package api

// CATALOG API CLIENT

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the service has no such resource.
var ErrNotFound = errors.New("not found")

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      func() backoff.BackOff
	logger     *zap.Logger
}

// ProductLineSummary is one entry of the product line listing.
type ProductLineSummary struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Revision int    `json:"revision"`
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 30 * time.Second
			return backoff.WithMaxRetries(b, 3)
		},
		logger: logger,
	}
}

// WithRetry replaces the retry policy used for server errors.
func (c *Client) WithRetry(policy func() backoff.BackOff) *Client {
	c.retry = policy
	return c
}

// GetProductLine decodes the named product line into v.
func (c *Client) GetProductLine(ctx context.Context, name string, v any) error {
	return c.getJSON(ctx, "/api/product-lines/"+url.PathEscape(name), v)
}

// ListProductLines returns the product lines the service knows.
func (c *Client) ListProductLines(ctx context.Context) ([]ProductLineSummary, error) {
	var out []ProductLineSummary
	if err := c.getJSON(ctx, "/api/product-lines", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("do request: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s: %w", path, ErrNotFound))
		case resp.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("unexpected status: %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	return backoff.RetryNotify(operation, backoff.WithContext(c.retry(), ctx),
		func(err error, d time.Duration) {
			c.logger.Warn("Catalog API request failed, retrying...",
				zap.String("path", path),
				zap.Error(err),
				zap.Duration("next_attempt_in", d))
		})
}
