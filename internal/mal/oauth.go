// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package mal

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/malwrapped/internal/metrics"
	"github.com/tomtom215/malwrapped/internal/models"
)

// Default MAL OAuth2 endpoints.
const (
	DefaultAuthorizeURL = "https://myanimelist.net/v1/oauth2/authorize"
	DefaultTokenURL     = "https://myanimelist.net/v1/oauth2/token"
)

// verifierBytes yields a 64 character base64url verifier, inside the
// 43-128 range RFC 7636 requires.
const verifierBytes = 48

var (
	// ErrUnknownState is returned when a callback state was never issued or
	// has expired.
	ErrUnknownState = errors.New("mal: unknown or expired oauth state")

	// ErrOAuthNotConfigured is returned when no client ID is set.
	ErrOAuthNotConfigured = errors.New("mal: oauth client id not configured")
)

// OAuthConfig configures the OAuth client. Zero URLs and TTL take defaults.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthorizeURL string
	TokenURL     string
	StateTTL     time.Duration
	HTTPClient   *http.Client
}

// OAuth runs MAL's authorization code flow with PKCE and remembers the
// verifier for each issued state until it is used or expires.
type OAuth struct {
	cfg        OAuthConfig
	httpClient *http.Client
	now        func() time.Time

	mu      sync.Mutex
	pending map[string]pendingAuth
}

type pendingAuth struct {
	verifier  string
	expiresAt time.Time
}

// NewOAuth creates an OAuth client.
func NewOAuth(cfg OAuthConfig) *OAuth {
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OAuth{
		cfg:        cfg,
		httpClient: httpClient,
		now:        time.Now,
		pending:    make(map[string]pendingAuth),
	}
}

// Configured reports whether a client ID is set.
func (o *OAuth) Configured() bool {
	return o.cfg.ClientID != ""
}

// GeneratePKCE returns a random code verifier. With the plain method the
// code challenge is the verifier.
func GeneratePKCE() (string, error) {
	b := make([]byte, verifierBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthorizationURL builds the URL the user is sent to.
func (o *OAuth) AuthorizationURL(state, challenge string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", o.cfg.ClientID)
	params.Set("state", state)
	params.Set("code_challenge", challenge)
	params.Set("code_challenge_method", "plain")
	if o.cfg.RedirectURI != "" {
		params.Set("redirect_uri", o.cfg.RedirectURI)
	}
	return o.cfg.AuthorizeURL + "?" + params.Encode()
}

// Begin issues a new state and verifier and returns the authorization URL.
func (o *OAuth) Begin() (authURL, state string, err error) {
	if !o.Configured() {
		return "", "", ErrOAuthNotConfigured
	}
	verifier, err := GeneratePKCE()
	if err != nil {
		return "", "", err
	}
	state = uuid.NewString()

	o.mu.Lock()
	o.pending[state] = pendingAuth{verifier: verifier, expiresAt: o.now().Add(o.cfg.StateTTL)}
	o.mu.Unlock()

	return o.AuthorizationURL(state, verifier), state, nil
}

// Complete exchanges code for tokens using the verifier issued with state.
// A state can be completed once.
func (o *OAuth) Complete(ctx context.Context, state, code string) (*models.TokenResponse, error) {
	o.mu.Lock()
	p, ok := o.pending[state]
	delete(o.pending, state)
	o.mu.Unlock()

	if !ok || !o.now().Before(p.expiresAt) {
		return nil, ErrUnknownState
	}
	return o.ExchangeCode(ctx, code, p.verifier)
}

// ExchangeCode trades an authorization code and its verifier for tokens.
func (o *OAuth) ExchangeCode(ctx context.Context, code, verifier string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("code_verifier", verifier)
	if o.cfg.RedirectURI != "" {
		form.Set("redirect_uri", o.cfg.RedirectURI)
	}
	return o.postToken(ctx, form)
}

// Refresh trades a refresh token for a new token pair.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return o.postToken(ctx, form)
}

// PurgeExpired drops expired pending states and returns how many were removed.
func (o *OAuth) PurgeExpired() int {
	now := o.now()
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := 0
	for state, p := range o.pending {
		if !now.Before(p.expiresAt) {
			delete(o.pending, state)
			removed++
		}
	}
	return removed
}

// PendingCount returns the number of outstanding states.
func (o *OAuth) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

func (o *OAuth) postToken(ctx context.Context, form url.Values) (*models.TokenResponse, error) {
	if !o.Configured() {
		return nil, ErrOAuthNotConfigured
	}
	form.Set("client_id", o.cfg.ClientID)
	if o.cfg.ClientSecret != "" {
		form.Set("client_secret", o.cfg.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	if err != nil {
		metrics.RecordMALRequest("oauth_token", 0, time.Since(start))
		return nil, fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordMALRequest("oauth_token", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   "oauth_token",
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	var token models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response did not include an access token")
	}
	return &token, nil
}
