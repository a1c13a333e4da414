// Package metadata holds the HTTP plumbing shared by the public-API clients
// under its subpackages: rate limiting, timeouts, status mapping and
// gjson-based response access.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/toptenapp/topten-server/internal/ratelimit"
)

const (
	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 10 * time.Second

	// Rate limit applied to backends without an override: 2 requests per second, burst of 4.
	defaultRPS   = 2.0
	defaultBurst = 4

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20

	userAgent = "TopTen/1.0 (+https://github.com/toptenapp/topten-server)"
)

// Sentinel errors for backend calls.
var (
	ErrNotFound      = errors.New("metadata: not found")
	ErrRateLimited   = errors.New("metadata: rate limited by server")
	ErrBadRequest    = errors.New("metadata: bad request")
	ErrUnauthorized  = errors.New("metadata: unauthorized")
	ErrServer        = errors.New("metadata: server error")
	ErrBadResponse   = errors.New("metadata: malformed response")
	ErrNotConfigured = errors.New("metadata: backend not configured")
)

// Error wraps an underlying error with the backend and operation.
type Error struct {
	Backend string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError creates an Error with context.
func WrapError(backend, op string, err error) error {
	return &Error{Backend: backend, Op: op, Err: err}
}

// HTTP is a rate-limited JSON client shared by all backends.
// Each backend is its own rate-limit key.
type HTTP struct {
	client  *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewHTTP creates the shared client. A zero timeout uses DefaultTimeout.
func NewHTTP(logger *slog.Logger, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limiter := ratelimit.New(defaultRPS, defaultBurst)
	// Nominatim's usage policy allows at most one request per second.
	limiter.SetLimit("nominatim", 1, 1)
	// ip-api.com free tier: 45 requests per minute.
	limiter.SetLimit("ipapi", 0.75, 2)

	return &HTTP{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		logger:  logger,
	}
}

// NewTestHTTP wraps an existing client, typically httptest.Server.Client(), without rate limits.
func NewTestHTTP(client *http.Client, logger *slog.Logger) *HTTP {
	return &HTTP{
		client:  client,
		limiter: ratelimit.New(1000, 1000),
		logger:  logger,
	}
}

// GetJSON performs a GET and returns the parsed body.
// header may be nil. Non-2xx statuses map to the sentinel errors.
func (h *HTTP) GetJSON(ctx context.Context, backend, rawURL string, header http.Header) (gjson.Result, error) {
	if err := h.limiter.Wait(ctx, backend); err != nil {
		return gjson.Result{}, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	h.logger.Debug("backend request", "backend", backend, "host", req.URL.Host, "path", req.URL.Path)

	resp, err := h.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return gjson.Result{}, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return gjson.Result{}, ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return gjson.Result{}, ErrUnauthorized
	case resp.StatusCode == http.StatusBadRequest:
		return gjson.Result{}, ErrBadRequest
	case resp.StatusCode >= 500:
		return gjson.Result{}, ErrServer
	default:
		return gjson.Result{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrBadResponse
	}
	return gjson.ParseBytes(body), nil
}

// Year returns the leading four-digit year of a date string such as "1999-03-31".
func Year(date string) string {
	if len(date) < 4 {
		return ""
	}
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return date[:4]
}
