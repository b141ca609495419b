// Package api is a typed client for the wg-controller REST API.
//
// A Client keeps the controller's session cookie in its own cookie jar, so a
// successful Login authenticates every later call until Logout. Clients built
// with WithAPIKey authenticate with the Authorization header instead.
package api

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

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	apiPrefix = "/api/v1"

	// maxErrorBody caps how much of a failed response is kept.
	maxErrorBody = 64 << 10
)

// Client talks to one wg-controller instance. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	jar     *sessionJar
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	log     zerolog.Logger
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient uses hc for requests. The client is copied; its Jar is
// replaced by the session jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithAPIKey sends token in the Authorization header on every request.
func WithAPIKey(token string) Option {
	return func(c *Client) {
		c.apiKey = token
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger. Requests are logged at debug, failures at warn.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a client for the controller at baseURL, e.g.
// "https://vpn.example.com".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", baseURL)
	}

	jar, err := newSessionJar()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		jar:     jar,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var hc http.Client
	if c.http != nil {
		hc = *c.http
	}
	hc.Jar = c.jar
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.http = &hc

	return c, nil
}

// BaseURL returns the controller address the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// hasSession reports whether the jar holds a session cookie for the
// controller.
func (c *Client) hasSession() bool {
	for _, ck := range c.jar.Cookies(c.baseURL.JoinPath(apiPrefix, "/")) {
		if ck.Name == sessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

// endpoint joins the API prefix and path segments. Segments are escaped.
func (c *Client) endpoint(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL.String())
	b.WriteString(apiPrefix)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil. Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", target).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{StatusCode: resp.StatusCode, Body: string(raw)}
		c.log.Warn().
			Str("method", method).
			Str("url", target).
			Int("status", resp.StatusCode).
			Str("error", apiErr.Message()).
			Msg("api error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
