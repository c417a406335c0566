// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
client.go - MyAnimeList HTTP Client

Resilience:
  - Circuit breaker: opens after BreakerFailures consecutive upstream
    failures, half-opens after BreakerTimeout
  - Rate limiting: exponential backoff (1s, 2s, 4s, ...) on HTTP 429,
    Retry-After (seconds) wins when present
  - Context: every method takes a context for cancellation

Client errors (401, 404, other 4xx) do not count against the breaker.
*/

//nolint:staticcheck // File documentation, not package doc
package mal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

// DefaultBaseURL is the MyAnimeList API v2 root.
const DefaultBaseURL = "https://api.myanimelist.net/v2"

// maxErrorBodySize bounds how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

var (
	// ErrUnauthorized is returned when MAL rejects the bearer token.
	ErrUnauthorized = errors.New("mal: unauthorized")

	// ErrCircuitOpen is returned when the breaker rejects a call.
	ErrCircuitOpen = errors.New("mal: circuit breaker is open")
)

// APIError is a non-2xx MAL response other than 401.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mal: %s returned status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Config configures a Client. Zero values take defaults.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	HTTPClient      *http.Client
}

// Client talks to the MAL API on behalf of a bearer token.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
	breaker        *circuitBreaker
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:     httpClient,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
		breaker:        newCircuitBreaker("mal-api", cfg.BreakerFailures, cfg.BreakerTimeout),
	}
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *Client) BreakerState() string {
	return c.breaker.state()
}

// getJSON performs an authenticated GET through the breaker and decodes the
// response into out.
func (c *Client) getJSON(ctx context.Context, token, endpoint, path string, query url.Values, out interface{}) error {
	_, err := c.breaker.execute(func() (interface{}, error) {
		return nil, c.doGetJSON(ctx, token, endpoint, path, query, out)
	})
	return err
}

func (c *Client) doGetJSON(ctx context.Context, token, endpoint, path string, query url.Values, out interface{}) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRateLimit(req, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, endpoint); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// doRequestWithRateLimit executes req, retrying HTTP 429 responses up to
// maxRetries times. The caller closes the returned body.
func (c *Client) doRequestWithRateLimit(req *http.Request, endpoint string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordMALRequest(endpoint, 0, time.Since(start))
			return nil, fmt.Errorf("failed to execute %s request: %w", endpoint, err)
		}
		metrics.RecordMALRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		metrics.RecordMALRateLimited(endpoint)
		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()

		if attempt >= c.maxRetries {
			return nil, &APIError{
				StatusCode: http.StatusTooManyRequests,
				Endpoint:   endpoint,
				Body:       fmt.Sprintf("rate limit exceeded after %d retries", c.maxRetries),
			}
		}

		delay := c.retryBaseDelay * (1 << attempt)
		if secs, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && secs >= 0 {
			delay = time.Duration(secs) * time.Second
		}

		logging.Warn().
			Str("endpoint", endpoint).
			Dur("retry_delay", delay).
			Int("attempt", attempt+1).
			Int("max_retries", c.maxRetries).
			Msg("MAL API rate limited (HTTP 429), retrying")

		timer := time.NewTimer(delay)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}
}

// checkStatus maps non-2xx responses to errors.
func checkStatus(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		Body:       string(readBodyForError(resp.Body)),
	}
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
