// Package profiles is the HTTP client for the profile service,
// the remote collaborator holding UserProfile records.
package profiles

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
	"golang.org/x/time/rate"

	"github.com/twiller-app/authkit"
)

const (
	defaultTimeout = 10 * time.Second

	// requestIDHeader carries a UUID identifying each call for log correlation.
	requestIDHeader = "X-Request-Id"
)

// Config provides the required values for a Client.
type Config struct {
	// BaseURL locates the profile service.
	BaseURL string

	// Timeout bounds each call. Defaults to 10s.
	Timeout time.Duration
}

// A Client calls the profile service's three endpoints.
//
// Calls are rate limited client-side so a misbehaving caller cannot
// hammer the service; the default allows 10 calls every second with
// bursts up to 20.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// A ClientOpt configures the provided *Client.
type ClientOpt func(*Client)

// WithHTTPClient swaps the *http.Client used for every call.
func WithHTTPClient(c *http.Client) ClientOpt {
	return func(cl *Client) { cl.client = c }
}

// WithRateLimit replaces the default client-side rate limit.
func WithRateLimit(l *rate.Limiter) ClientOpt {
	return func(cl *Client) { cl.limiter = l }
}

// New constructs a Client from cfg and opts.
func New(cfg Config, opts ...ClientOpt) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf(`%w: BaseURL cannot be ""`, authkit.ErrBadConfig)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(10, 20),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchByEmail retrieves the UserProfile keyed by email.
// When the service holds no record for email, the error wraps [authkit.ErrNotFound].
func (c *Client) FetchByEmail(ctx context.Context, email string) (authkit.UserProfile, error) {
	var profile authkit.UserProfile
	path := "/loggedinuser?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &profile); err != nil {
		return authkit.UserProfile{}, err
	}

	return profile, nil
}

// Create registers a brand new UserProfile from reg,
// validating reg before anything goes over the wire.
func (c *Client) Create(ctx context.Context, reg authkit.Registration) (authkit.UserProfile, error) {
	if err := reg.Valid(); err != nil {
		return authkit.UserProfile{}, err
	}

	var profile authkit.UserProfile
	if err := c.do(ctx, http.MethodPost, "/register", reg, &profile); err != nil {
		return authkit.UserProfile{}, err
	}

	return profile, nil
}

// Update replaces the UserProfile keyed by email with profile.
func (c *Client) Update(ctx context.Context, email string, profile authkit.UserProfile) (authkit.UserProfile, error) {
	var updated authkit.UserProfile
	path := "/userupdate/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodPatch, path, profile, &updated); err != nil {
		return authkit.UserProfile{}, err
	}

	return updated, nil
}

// do performs one rate limited call against the profile service,
// decoding a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s", authkit.ErrUnexpected, err)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %s", authkit.ErrUnexpected, err)
		}
		bodyReader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%w: %s", authkit.ErrUnexpected, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: calling profile service: %s", authkit.ErrUnexpected, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", authkit.ErrNotFound, method, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: profile service returned %d: %s", authkit.ErrUnexpected, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding profile service response: %s", authkit.ErrUnexpected, err)
	}

	return nil
}
