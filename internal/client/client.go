package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kjstillabower/krishi-dashboard/internal/circuitbreaker"
	"github.com/kjstillabower/krishi-dashboard/internal/observability"
)

// Client is the shared wrapper for the dashboard backend. It resolves every path against the
// base URL, attaches the session credential when one is set, and turns non-2xx responses into
// *APIError. Every call is a single round trip: no retries, no caching.
type Client struct {
	baseURL *url.URL
	timeout time.Duration
	client  *http.Client

	mu    sync.RWMutex
	token string
	jar   *sessionJar

	breaker *circuitbreaker.CircuitBreaker
}

// New creates a Client for baseURL (e.g. "http://localhost:8000/api/"). timeout bounds each
// request; zero leaves requests bounded only by the caller's context.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidBaseURL)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	jar, err := newSessionJar()
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: u,
		timeout: timeout,
		jar:     jar,
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// SetToken sets the process-wide bearer credential. Called after login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the credential and the session cookies. Called after logout.
func (c *Client) ClearToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.jar.reset()
}

// Token returns the current credential, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// sessionJar holds the backend session cookie. http.Client reads its Jar field
// without locking, so logout swaps the inner jar instead of the field.
type sessionJar struct {
	mu  sync.RWMutex
	jar *cookiejar.Jar
}

func newSessionJar() (*sessionJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &sessionJar{jar: jar}, nil
}

func (j *sessionJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	j.jar.SetCookies(u, cookies)
}

func (j *sessionJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.jar.Cookies(u)
}

// reset drops every stored cookie.
func (j *sessionJar) reset() {
	// cookiejar.New only fails on a bad PublicSuffixList, and none is passed.
	jar, _ := cookiejar.New(nil)
	j.mu.Lock()
	j.jar = jar
	j.mu.Unlock()
}

// SetCircuitBreaker wraps every backend call in cb. Nil disables the breaker.
func (c *Client) SetCircuitBreaker(cb *circuitbreaker.CircuitBreaker) {
	c.breaker = cb
}

// request describes one backend call. endpoint is the path template used as metric label.
type request struct {
	method   string
	path     string
	endpoint string
	query    url.Values
	body     any
}

// do performs one round trip and decodes a 2xx body into out (nil discards the body).
func (c *Client) do(ctx context.Context, req request, out any) error {
	if c.breaker == nil {
		return c.call(ctx, req, out)
	}
	var callErr error
	err := c.breaker.Call(ctx, func() error {
		callErr = c.call(ctx, req, out)
		return breakerOutcome(callErr)
	})
	if callErr != nil {
		return callErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	return nil
}

// breakerOutcome counts only backend-side failures against the breaker; a 4xx is a healthy backend.
func breakerOutcome(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return nil
	}
	return err
}

func (c *Client) call(ctx context.Context, req request, out any) error {
	start := time.Now()
	label := req.endpoint
	if label == "" {
		label = req.path
	}

	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		observability.BackendCallsTotal.WithLabelValues(label, "error").Inc()
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.BackendCallsTotal.WithLabelValues(label, "error").Inc()
		observability.BackendCallDuration.WithLabelValues(label, "error").Observe(duration)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = fmt.Errorf("%w: request timeout: %w", ErrNetwork, err)
		} else {
			err = fmt.Errorf("%w: %w", ErrNetwork, err)
		}
		observability.BackendErrorsTotal.WithLabelValues(label, string(CategorizeError(err))).Inc()
		return err
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.BackendCallsTotal.WithLabelValues(label, status).Inc()
	observability.BackendCallDuration.WithLabelValues(label, status).Observe(duration)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response body: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, body)
		observability.BackendErrorsTotal.WithLabelValues(label, string(CategorizeError(apiErr))).Inc()
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		observability.BackendErrorsTotal.WithLabelValues(label, string(ErrorCategoryParsing)).Inc()
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, req request) (*http.Request, error) {
	rel, err := url.Parse(strings.TrimPrefix(req.path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", req.path, err)
	}
	u := c.baseURL.ResolveReference(rel)
	if len(req.query) > 0 {
		q := u.Query()
		for k, vs := range req.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if corrID := extractCorrelationID(ctx); corrID != "" {
		httpReq.Header.Set("X-Correlation-ID", corrID)
	}
	return httpReq, nil
}

func extractCorrelationID(ctx context.Context) string {
	if corrIDVal := ctx.Value("correlation_id"); corrIDVal != nil {
		if corrID, ok := corrIDVal.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
