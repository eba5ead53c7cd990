// Package dispatch fetches raw JSON from upstream open-data portals.
//
// Every request is rate limited with a token bucket, guarded by a circuit
// breaker and retried with backoff on transient failures.
package dispatch

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"

	"citygram-orlando/internal/observability/metrics"
	"citygram-orlando/internal/observability/tracing"
	"citygram-orlando/internal/resilience/circuitbreaker"
	"citygram-orlando/internal/resilience/retry"
)

// ErrBodyTooLarge is returned when a response exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Config holds the fetcher settings.
type Config struct {
	// Timeout bounds a single HTTP attempt
	Timeout time.Duration
	// MaxBodyBytes caps how much of a response is read
	MaxBodyBytes int64
	// RatePerSecond and Burst configure the token bucket shared by all requests
	RatePerSecond float64
	Burst         int
	UserAgent     string

	Retry   retry.Config
	Breaker circuitbreaker.Config
}

// DefaultConfig returns settings suited to the Socrata dispatch feed.
func DefaultConfig() Config {
	return Config{
		Timeout:       15 * time.Second,
		MaxBodyBytes:  10 << 20,
		RatePerSecond: 1,
		Burst:         3,
		UserAgent:     "citygram-orlando/1.0",
		Retry:         retry.DispatchFetchConfig(),
		Breaker:       circuitbreaker.DispatchFetchConfig(),
	}
}

// Client is safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	breaker *circuitbreaker.CircuitBreaker
	cfg     Config
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker: circuitbreaker.New(cfg.Breaker),
		cfg:     cfg,
	}
}

// Fetch GETs url and returns the response body. Non-200 responses are
// reported as *retry.HTTPError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "dispatch.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", url))

	start := time.Now()
	var body []byte
	err := retry.WithBackoff(ctx, c.cfg.Retry, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
		var err error
		body, err = circuitbreaker.Do(c.breaker, func() ([]byte, error) {
			return c.do(ctx, url)
		})
		return err
	})
	metrics.RecordDispatchFetch(err == nil, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response_size", len(body)))
	return body, nil
}

func (c *Client) do(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", req.URL.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, c.cfg.MaxBodyBytes)
	}
	return body, nil
}

// Name returns the circuit breaker name, for health reporting.
func (c *Client) Name() string { return c.breaker.Name() }

// IsOpen reports whether upstream requests are currently being rejected.
func (c *Client) IsOpen() bool { return c.breaker.IsOpen() }
