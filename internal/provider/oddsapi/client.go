// Package oddsapi is the HTTP client for The Odds API v4.
//
// Auth is an apiKey query parameter. Every call costs usage credits, so
// successful GETs go through an optional read-through cache keyed by the
// request URL with the key stripped. Rate limiting is a token bucket.
package oddsapi

import (
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

	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-props/internal/cache"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com/v4"

	SportNFL          = "americanfootball_nfl"
	SportNFLPreseason = "americanfootball_nfl_preseason"

	// DefaultRegions keeps player-prop requests tight to save credits.
	DefaultRegions = "us,us2"
	// GameRegions is wider because spreads and totals are cheap.
	GameRegions = "us,us2,eu,uk"

	ModePreseason = "preseason"
)

// SportForMode maps a request mode to a sport key.
func SportForMode(mode string) string {
	if strings.EqualFold(strings.TrimSpace(mode), ModePreseason) {
		return SportNFLPreseason
	}
	return SportNFL
}

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("no odds API key configured")

// APIError is a non-2xx response from the provider.
type APIError struct {
	Status int
	Code   string // error_code from the body, upper-cased; may be empty
	Body   []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("odds api returned %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("odds api returned %d: %s", e.Status, truncate(e.Body, 200))
}

// Client is the rate-limited Odds API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	cache      cache.Store
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithCache enables read-through caching of successful responses.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the default 30s-timeout HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an Odds API client with rate limiting.
func NewClient(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	rps := float64(requestsPerMinute) / 60.0
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool { return c.apiKey != "" }

// KeySuffix returns the last six characters of the key, masked, so operators
// can tell which key is live without exposing it.
func (c *Client) KeySuffix() string {
	k := c.apiKey
	if len(k) > 6 {
		k = k[len(k)-6:]
	}
	return "***" + k
}

// URL builds the request URL for path and params. The key is included only
// when withKey is set.
func (c *Client) URL(path string, params url.Values, withKey bool) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if withKey {
		q.Set("apiKey", c.apiKey)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// RawResponse is an unprocessed provider response.
type RawResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Do performs one rate-limited GET without caching or status checks.
func (c *Client) Do(ctx context.Context, path string, params url.Values) (*RawResponse, error) {
	if !c.HasKey() {
		return nil, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, params, true), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The url.Error carries the full URL including the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("Odds API request",
		"path", path,
		"status", resp.StatusCode,
		"remaining", resp.Header.Get("x-requests-remaining"),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &RawResponse{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// get performs a cached GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	key := c.URL(path, params, false)
	if c.cache != nil {
		if data, _, ok := c.cache.Get(ctx, key); ok {
			return data, nil
		}
	}

	resp, err := c.Do(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, newAPIError(resp)
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, resp.Body, c.cacheTTL)
	}
	return resp.Body, nil
}

func newAPIError(resp *RawResponse) *APIError {
	e := &APIError{Status: resp.Status, Body: resp.Body}
	var body struct {
		ErrorCode string `json:"error_code"`
	}
	if json.Unmarshal(resp.Body, &body) == nil {
		e.Code = strings.ToUpper(body.ErrorCode)
	}
	return e
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
