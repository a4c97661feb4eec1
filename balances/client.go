// Package balances aggregates the multisig's balances from a per-chain REST endpoint.
package balances

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/logger"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultRetryAttempts = 3
	defaultRetryDelay    = 250 * time.Millisecond
)

// StatusError is returned when the endpoint answers with a non 2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Temporary reports whether the request may succeed when retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client fetches balances from GET {baseURL}{address}{ring.BalancesPath}.
type Client struct {
	baseURL  string
	rings    *ring.Config
	client   *resty.Client
	lggr     logger.Logger
	attempts uint
	delay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.SetTimeout(d)
	}
}

// WithRetry sets how many times a request is attempted and the base delay between attempts.
// Only transport errors and 5xx/429 responses are retried. A zero delay keeps the default.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		if delay > 0 {
			c.delay = delay
		}
	}
}

// WithDebug enables resty request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.client.SetDebug(debug)
	}
}

// NewClient creates a Client for the rings in cfg.
func NewClient(baseURL string, cfg *ring.Config, lggr logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		rings:   cfg,
		client: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		lggr:     lggr,
		attempts: defaultRetryAttempts,
		delay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchNetwork returns the balances of address on r.
func (c *Client) FetchNetwork(ctx context.Context, address string, r ring.Ring) (Result, error) {
	url := c.baseURL + address + r.BalancesPath

	result, err := retry.DoWithData(
		func() (Result, error) {
			return c.get(ctx, url)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			c.lggr.Warnw("Balances request failed. Retrying...",
				"network", r.Name, "attempt", attempt, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s balances: %w", r.Name, err)
	}

	c.lggr.Debugw("Fetched balances", "network", r.Name, "entries", len(result))

	return result, nil
}

// FetchAll fetches the balances of address on every ring concurrently. The first failure cancels
// the outstanding requests and is returned.
func (c *Client) FetchAll(ctx context.Context, address string) (NetworkBalances, error) {
	var (
		mu  sync.Mutex
		all = make(NetworkBalances, len(c.rings.Names()))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, r := range c.rings.Rings() {
		g.Go(func() error {
			result, err := c.FetchNetwork(gctx, address, r)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			all[r.Name] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return all, nil
}

func (c *Client) get(ctx context.Context, url string) (Result, error) {
	var result Result

	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		ForceContentType("application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return result, nil
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	return true
}
