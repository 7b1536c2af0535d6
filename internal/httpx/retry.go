// Package httpx provides the shared retrying HTTP client used by every
// phone-lookup provider. The retry policy is fixed by the spec (§4.2): up
// to 3 attempts, exponential backoff of 2^attempt seconds, retrying only
// transport-level errors or HTTP 5xx — never 4xx.
package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxAttempts is the maximum number of HTTP attempts per lookup, per §4.2.
const MaxAttempts = 3

// Client wraps *http.Client with the provider retry/backoff policy.
type Client struct {
	http *http.Client
	// sleep is overridable in tests so backoff does not actually wait.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates an httpx.Client with the given per-attempt timeout.
func New(timeout time.Duration) *Client {
	return &Client{
		http:  &http.Client{Timeout: timeout},
		sleep: realSleep,
	}
}

func realSleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// withoutSleep returns a copy of the client that does not actually block
// between retries. It is unexported, so only code in this package (its
// tests) can reach it.
func (c *Client) withoutSleep() *Client {
	return &Client{http: c.http, sleep: func(context.Context, time.Duration) {}}
}

// Do executes req with the shared retry policy. On HTTP 4xx it returns the
// response immediately without retrying (the caller inspects status). On
// transport errors or 5xx it retries up to MaxAttempts-1 more times with
// backoff 2^attempt seconds, then returns the last error.
func (c *Client) Do(ctx context.Context, buildReq func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		req, err := buildReq(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "httpx: build request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			// Every transport-level failure (timeout, connection reset, DNS)
			// is treated as retryable per §4.2 — only HTTP 4xx is terminal.
			lastErr = err
			zap.L().Warn("httpx: transport error, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			if attempt < MaxAttempts-1 {
				c.backoff(ctx, attempt)
			}
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = eris.Errorf("httpx: http %d", resp.StatusCode)
			_ = resp.Body.Close()
			zap.L().Warn("httpx: server error, retrying",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			if attempt < MaxAttempts-1 {
				c.backoff(ctx, attempt)
			}
			continue
		}

		// 2xx, 3xx, and 4xx all return immediately — 4xx is terminal per §4.2
		// and §7.2, and is the caller's job to interpret.
		return resp, nil
	}

	return nil, eris.Wrap(lastErr, "httpx: all retries exhausted")
}

// backoff sleeps 2^attempt seconds (1s, 2s, 4s for attempts 0, 1, 2), per §4.2.
func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(1<<uint(attempt)) * time.Second
	c.sleep(ctx, d)
}
