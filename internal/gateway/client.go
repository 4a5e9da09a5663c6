// Package gateway is the single outbound path to the CRMS REST API. It attaches
// the bearer token of the current session, encodes and decodes JSON, and
// translates every failure into ErrUnauthorized, *RequestFailedError or
// ErrNetworkUnavailable.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/target/crms-console/internal/observability/metrics"
	"github.com/target/crms-console/internal/observability/statsd"
)

const (
	// DefaultTimeout bounds a request when no HTTP client is supplied.
	DefaultTimeout = 30 * time.Second
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 10 << 20
)

// TokenSource yields the bearer token for the current browser context.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, bool)

func (f TokenSourceFunc) Token(ctx context.Context) (string, bool) { return f(ctx) }

// Request describes one API call. Path is relative to the base URL and already escaped.
type Request struct {
	Method       string
	Path         string
	Body         any
	RequiresAuth bool
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8081/api.
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Tokens     TokenSource
	Logger     *slog.Logger
	Metrics    statsd.Sink
	// RateLimit is requests per second across the client; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Client issues requests against a fixed base URL. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
	metrics    statsd.Sink
	limiter    *rate.Limiter
}

// New validates cfg and constructs a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("gateway: BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("gateway: BaseURL %q must be http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:    base,
		httpClient: httpClient,
		tokens:     cfg.Tokens,
		logger:     logger.With("component", "gateway"),
		metrics:    cfg.Metrics,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// WithTokens returns a copy bound to tokens. Transport, limiter and metrics are shared.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	cp := *c
	cp.tokens = tokens
	return &cp
}

// Get issues an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, RequiresAuth: true}, out)
}

// Post issues an authenticated POST with body encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, RequiresAuth: true}, out)
}

// Put issues an authenticated PUT with body encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, RequiresAuth: true}, out)
}

// Delete issues an authenticated DELETE and discards the response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, RequiresAuth: true}, nil)
}

// Do sends req and decodes a 2xx JSON body into out (nil discards it).
// A missing token does not stop an authenticated request; the server decides.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	status, err := c.do(ctx, req, out)
	c.observe(req.Method, status, time.Since(start), err)
	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) (int, error) {
	op := req.Method + " " + req.Path

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, err
	}

	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return 0, &NetworkError{Op: op, Err: waitErr}
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.DebugContext(ctx, "close response body", "op", op, "error", closeErr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, &NetworkError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return resp.StatusCode, &RequestFailedError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, body),
			Err:     ErrUnauthorized,
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp.StatusCode, &RequestFailedError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, &RequestFailedError{
			Status:  resp.StatusCode,
			Message: "invalid response body",
			Err:     err,
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	path := req.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &RequestFailedError{Message: "invalid request body", Err: err}
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+path, body)
	if err != nil {
		return nil, &RequestFailedError{Message: "invalid request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if req.RequiresAuth && c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
		}
	}
	return httpReq, nil
}

// errorMessage prefers a JSON "message" then "error" field, then the trimmed body, then the status text.
func errorMessage(status int, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &payload) == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
	}
	if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '<' {
		const maxLen = 512
		if len(trimmed) > maxLen {
			trimmed = trimmed[:maxLen]
		}
		return string(trimmed)
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

func (c *Client) observe(method string, status int, elapsed time.Duration, err error) {
	outcome := Outcome(err)
	metrics.EmitRequest(c.metrics, metrics.RequestMetric{
		Method:   method,
		Outcome:  outcome,
		Status:   status,
		Duration: elapsed,
		Err:      err,
	})
	if outcome == metrics.OutcomeNetwork {
		c.logger.Warn("api unreachable", "method", method, "error", err)
		return
	}
	c.logger.Debug("api call", "method", method, "status", status, "outcome", outcome, "elapsed", elapsed)
}

// Outcome classifies err into a metrics outcome tag.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case IsUnauthorized(err):
		return metrics.OutcomeUnauthorized
	case IsNetwork(err):
		return metrics.OutcomeNetwork
	default:
		return metrics.OutcomeRequestFailed
	}
}
