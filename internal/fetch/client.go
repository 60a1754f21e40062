package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// retryStatus lists the transient statuses worth retrying for
// idempotent requests.
var retryStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client is a polite HTTP client: fixed User-Agent, per-request
// timeout, bounded retry with exponential backoff on transient
// statuses, and connection reuse across fetches.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	backoff    time.Duration
}

// NewClient creates a polite client. Zero values fall back to the
// defaults the pipeline runs with when unconfigured.
func NewClient(timeout time.Duration, userAgent string, maxRetries int, backoff time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        8,
				MaxIdleConnsPerHost: 8,
			},
		},
		userAgent:  userAgent,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// Get fetches a URL and returns the response body. 2xx and 3xx are
// success; transient statuses are retried up to maxRetries with
// doubling backoff; anything else is an error.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	var lastErr error
	delay := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		body, retry, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			return "", err
		}
	}
	return "", lastErr
}

func (c *Client) get(ctx context.Context, rawURL string) (body string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en, *;q=0.1")

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection-level failures are worth one more try.
		return "", true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", false, err
		}
		return string(data), false, nil
	}

	err = fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	return "", retryStatus[resp.StatusCode], err
}
