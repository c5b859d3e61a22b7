// Package gateway is the single chokepoint for calls to the recipe backend.
// It assembles headers, sends the request and turns non-2xx answers into
// RequestError values carrying the backend's message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/alchemorsel/recipeweb/pkg/errors"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader correlates a client call with backend logs
const RequestIDHeader = "X-Request-ID"

// Config holds the gateway settings
type Config struct {
	BaseURL string
	// Timeout of zero leaves cancellation to the caller's context
	Timeout time.Duration
	// RequestsPerSecond of zero disables client-side rate limiting
	RequestsPerSecond float64
	Burst             int
	Retry             RetryPolicy
}

// RetryPolicy is opt-in; the zero value and MaxAttempts of 1 mean one attempt.
// Transport errors and 502/503/504 answers are retried.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Observer receives one observation per attempt. Status is 0 for transport errors.
type Observer interface {
	ObserveRequest(method string, status int, duration time.Duration)
}

// Client talks to the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryPolicy
	observer   Observer
	tracing    bool
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver records per-attempt metrics
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithTracing wraps the transport with OpenTelemetry instrumentation
func WithTracing() Option {
	return func(c *Client) { c.tracing = true }
}

// New creates a gateway client
func New(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retry:      cfg.Retry,
		logger:     logger.Named("gateway"),
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tracing {
		base := c.httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced := *c.httpClient
		traced.Transport = otelhttp.NewTransport(base)
		c.httpClient = &traced
	}

	return c
}

// BaseURL returns the URL every endpoint is appended to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues a request and decodes a successful JSON answer into T
func Do[T any](ctx context.Context, c *Client, endpoint string, opts Options) (T, error) {
	var out T
	err := c.Request(ctx, endpoint, opts, &out)
	return out, err
}

// Request sends opts to endpoint (a suffix of the base URL). A 2xx JSON body is
// decoded into out; an empty body leaves out untouched. Non-2xx answers return
// *RequestError. Transport errors are returned as the HTTP client produced them.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options, out any) error {
	body, contentType, err := opts.encode()
	if err != nil {
		return err
	}

	method := opts.method()
	url := c.baseURL + endpoint
	header := c.buildHeader(opts.Header, contentType)

	resp, err := c.sendWithRetry(ctx, method, url, header, body)
	if err != nil {
		return err
	}

	if resp.statusCode < 200 || resp.statusCode > 299 {
		reqErr := newRequestError(resp.statusCode, resp.status, resp.body)
		c.logger.Warn("API error response",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("status", resp.statusCode),
			zap.String("message", reqErr.Message),
		)
		return reqErr
	}

	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return apperrors.NewMalformedResponseError(resp.statusCode, err)
	}

	return nil
}

// Ping reports whether the backend answers at all (any status below 500)
func (c *Client) Ping(ctx context.Context) bool {
	resp, err := c.send(ctx, http.MethodGet, c.baseURL+"/health", c.buildHeader(nil, ""), nil)
	if err != nil {
		c.logger.Debug("Connection verification failed", zap.Error(err))
		return false
	}
	return resp.statusCode < 500
}

func (c *Client) buildHeader(overrides http.Header, multipartType string) http.Header {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	for key, values := range overrides {
		header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	// the boundary lives in the content type, so it cannot be overridden
	if multipartType != "" {
		header.Set("Content-Type", multipartType)
	}

	if header.Get(RequestIDHeader) == "" {
		header.Set(RequestIDHeader, uuid.NewString())
	}

	return header
}

type response struct {
	statusCode int
	status     string
	body       []byte
}

var errRetryableStatus = errors.New("retryable status")

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (c *Client) sendWithRetry(ctx context.Context, method, url string, header http.Header, body []byte) (*response, error) {
	if c.retry.MaxAttempts <= 1 {
		return c.send(ctx, method, url, header, body)
	}

	policy := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		policy.InitialInterval = c.retry.InitialInterval
	}
	if c.retry.MaxInterval > 0 {
		policy.MaxInterval = c.retry.MaxInterval
	}
	policy.MaxElapsedTime = 0

	attempt := 0
	var last *response
	operation := func() error {
		attempt++
		resp, err := c.send(ctx, method, url, header, body)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		last = resp
		if retryableStatus(resp.statusCode) {
			return errRetryableStatus
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debug("Retrying API request",
			zap.String("method", method),
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retry.MaxAttempts-1)), ctx)
	err := backoff.RetryNotify(operation, b, notify)
	if errors.Is(err, errRetryableStatus) {
		return last, nil
	}
	if err != nil {
		return nil, err
	}
	return last, nil
}

func (c *Client) send(ctx context.Context, method, url string, header http.Header, body []byte) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = header.Clone()

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", header.Get(RequestIDHeader)),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, start)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.observe(method, resp.StatusCode, start)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &response{
		statusCode: resp.StatusCode,
		status:     resp.Status,
		body:       data,
	}, nil
}

func (c *Client) observe(method string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, status, time.Since(start))
	}
}
