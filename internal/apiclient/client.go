// Package apiclient is the single chokepoint for calls to the remote El
// Criollo API. It attaches the bearer token, bounds every round trip with a
// timeout, classifies failures and tears the session down when the API
// rejects the token. It never retries.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 10 * time.Second

	// HeaderRequestID correlates a request with the API's logs.
	HeaderRequestID = "X-Request-ID"

	maxResponseBytes = 4 << 20
)

// SessionHolder is the part of the session store the adapter needs.
type SessionHolder interface {
	Token() string
	Expire(ctx context.Context, token string) bool
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	session SessionHolder
	metrics *Metrics
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a Client for baseURL. A zero timeout means DefaultTimeout.
// session may be nil for a client that never authenticates.
func New(baseURL string, timeout time.Duration, session SessionHolder, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		session: session,
		log:     log.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one request and decodes a successful JSON response into out
// (which may be nil). Every failure of the round trip is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token := ""
	if c.session != nil {
		token = c.session.Token()
	}

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		payload = bytes.NewReader(b)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("failed to build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	route := routeLabel(path)

	status, data, err := c.roundTrip(req)
	c.observe(method, route, start, err, status)

	if err != nil {
		return c.fail(&Error{Kind: kindForTransport(err), Method: method, Path: path, Err: err}, requestID)
	}

	if status < 200 || status > 299 {
		apiErr := &Error{
			Kind:    kindForStatus(status, token != ""),
			Status:  status,
			Method:  method,
			Path:    path,
			Message: backendMessage(data),
		}
		if apiErr.Kind == KindSessionExpired {
			c.expire(ctx, token)
		}
		return c.fail(apiErr, requestID)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(&Error{Kind: KindDecode, Status: status, Method: method, Path: path, Err: err}, requestID)
	}
	return nil
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// expire tears the session down detached from the request deadline.
func (c *Client) expire(ctx context.Context, token string) {
	if c.session == nil {
		return
	}
	if !c.session.Expire(context.WithoutCancel(ctx), token) {
		return
	}
	if c.metrics != nil {
		c.metrics.ForcedLogoutsTotal.Inc()
	}
	c.log.Info().Msg("API rejected the session token, forced logout")
}

func (c *Client) fail(err *Error, requestID string) *Error {
	c.log.Warn().
		Str("method", err.Method).
		Str("path", err.Path).
		Int("status", err.Status).
		Str("kind", string(err.Kind)).
		Str("request_id", requestID).
		Err(err.Err).
		Msg("API request failed")
	return err
}

func (c *Client) observe(method, route string, start time.Time, err error, status int) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case err != nil:
		outcome = string(kindForTransport(err))
	case status < 200 || status > 299:
		outcome = fmt.Sprintf("%d", status)
	}
	c.metrics.RequestsTotal.WithLabelValues(method, route, outcome).Inc()
	c.metrics.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

// routeLabel keeps metric cardinality bounded: "/tables/12/status" -> "tables".
func routeLabel(path string) string {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if seg == "" {
		return "root"
	}
	return strings.ToLower(seg)
}

// backendMessage extracts the API's explanation from an error body. The API
// answers either {"message": ...} or a problem document with a "title".
func backendMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Title
}
