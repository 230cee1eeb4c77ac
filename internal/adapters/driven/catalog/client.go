package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/domain"
)

// Config holds catalog API client configuration.
type Config struct {
	// BaseURL is the catalog API root (https://host/api/inventory).
	BaseURL string

	// APIID/APIKey are the static credential pair sent as headers on every
	// request.
	APIID  string
	APIKey string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// MaxRetries bounds retries per page for transient failures.
	// 429 responses do not count against it.
	MaxRetries int

	// BaseBackoff is the unit of the linearly increasing retry wait.
	BaseBackoff time.Duration

	// PageDelay is the fixed pause between successful page fetches,
	// respecting the upstream rate limit.
	PageDelay time.Duration
}

// DefaultConfig returns sensible defaults for the given endpoint and
// credentials.
func DefaultConfig(baseURL, apiID, apiKey string) Config {
	return Config{
		BaseURL:     baseURL,
		APIID:       apiID,
		APIKey:      apiKey,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		BaseBackoff: 2 * time.Second,
		PageDelay:   500 * time.Millisecond,
	}
}

// maxThrottleWaits caps how many 429 backoffs a single page may absorb.
// Throttle waits are excluded from the retry budget, but an upstream that
// throttles forever must not wedge the run.
const maxThrottleWaits = 10

// Page is one page of the upstream catalog listing.
type Page struct {
	Data  []json.RawMessage
	Pages int

	// Throttled is true when at least one 429 backoff happened while
	// fetching this page. The caller skips its inter-page delay then,
	// since the backoff already paced the request stream.
	Throttled bool
}

// pageEnvelope is the upstream wire shape.
type pageEnvelope struct {
	Data  []json.RawMessage `json:"data"`
	Pages int               `json:"pages"`
}

// Client talks to the upstream catalog API, one page per request.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a catalog API client.
// Missing credentials are a configuration error, caught before any network
// activity.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIID) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingCredentials
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// PageDelay exposes the configured inter-page delay for the fetcher.
func (c *Client) PageDelay() time.Duration {
	return c.cfg.PageDelay
}

// FetchPage retrieves one page for one status filter.
//
// Retry policy: HTTP 429 waits BaseBackoff*(throttles+1) and retries without
// spending the retry budget; 5xx, network errors, and malformed bodies retry
// with linearly increasing backoff up to MaxRetries; other 4xx fail the page
// immediately.
func (c *Client) FetchPage(ctx context.Context, status domain.ItemStatus, updatedAfter *time.Time, page int) (*Page, error) {
	endpoint, err := c.pageURL(status, updatedAfter, page)
	if err != nil {
		return nil, err
	}

	attempts := 0
	throttles := 0
	throttled := false

	for {
		body, code, err := c.get(ctx, endpoint)

		switch {
		case err == nil && code == http.StatusTooManyRequests:
			throttles++
			throttled = true
			if throttles > maxThrottleWaits {
				return nil, fmt.Errorf("page %d: rate limited %d times, giving up", page, throttles-1)
			}
			if err := sleep(ctx, c.cfg.BaseBackoff*time.Duration(throttles)); err != nil {
				return nil, err
			}
			continue

		case err == nil && code >= 400 && code < 500:
			// Non-retryable for this page.
			return nil, fmt.Errorf("page %d: catalog API error %d", page, code)

		case err == nil && code >= 200 && code < 300:
			var envelope pageEnvelope
			if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil {
				return &Page{Data: envelope.Data, Pages: envelope.Pages, Throttled: throttled}, nil
			}
			err = fmt.Errorf("page %d: malformed response body", page)

		case err == nil:
			err = fmt.Errorf("page %d: catalog API error %d", page, code)
		}

		// Transient failure: network error, 5xx, or malformed body.
		attempts++
		if attempts > c.cfg.MaxRetries {
			return nil, fmt.Errorf("page %d: retries exhausted: %w", page, err)
		}
		if err := sleep(ctx, c.cfg.BaseBackoff*time.Duration(attempts)); err != nil {
			return nil, err
		}
	}
}

// get performs one request and returns the body and status code.
// Transport-level failures return a non-nil error with a zero status.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Id", c.cfg.APIID)
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func (c *Client) pageURL(status domain.ItemStatus, updatedAfter *time.Time, page int) (string, error) {
	base, err := url.Parse(strings.TrimSuffix(c.cfg.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	params := url.Values{}
	params.Set("status", string(status))
	params.Set("page", strconv.Itoa(page))
	if updatedAfter != nil {
		params.Set("updated_at_gt", updatedAfter.UTC().Format(time.RFC3339))
	}
	base.RawQuery = params.Encode()
	return base.String(), nil
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
