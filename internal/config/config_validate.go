// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateMAL(); err != nil {
		return err
	}
	if err := c.validateOAuth(); err != nil {
		return err
	}
	if err := c.validateStats(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateMAL() error {
	if err := validateHTTPURL(c.MAL.BaseURL, "MAL_API_URL"); err != nil {
		return err
	}
	// MAL rejects limit values above 1000 on list endpoints.
	if c.MAL.PageSize < 1 || c.MAL.PageSize > 1000 {
		return fmt.Errorf("MAL_PAGE_SIZE must be between 1 and 1000, got %d", c.MAL.PageSize)
	}
	if c.MAL.MaxPages < 1 {
		return fmt.Errorf("MAL_MAX_PAGES must be at least 1, got %d", c.MAL.MaxPages)
	}
	if c.MAL.MaxRetries < 0 {
		return fmt.Errorf("MAL_MAX_RETRIES must not be negative")
	}
	if c.MAL.BreakerFailures == 0 {
		return fmt.Errorf("MAL_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateOAuth() error {
	if c.OAuth.RedirectURI != "" {
		if err := validateHTTPURL(c.OAuth.RedirectURI, "MAL_REDIRECT_URI"); err != nil {
			return err
		}
	}
	if err := validateHTTPURL(c.OAuth.AuthorizeURL, "MAL_OAUTH_AUTHORIZE_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.OAuth.TokenURL, "MAL_OAUTH_TOKEN_URL"); err != nil {
		return err
	}
	if c.OAuth.StateTTL <= 0 {
		return fmt.Errorf("OAUTH_STATE_TTL must be positive")
	}
	return nil
}

func (c *Config) validateStats() error {
	s := c.Stats
	if s.TopN < 1 {
		return fmt.Errorf("STATS_TOP_N must be at least 1, got %d", s.TopN)
	}
	if s.GemScoreThreshold < 1 || s.GemScoreThreshold > 10 {
		return fmt.Errorf("STATS_GEM_SCORE_THRESHOLD must be between 1 and 10, got %d", s.GemScoreThreshold)
	}
	if s.GemPopularityThreshold < 1 {
		return fmt.Errorf("STATS_GEM_POPULARITY_THRESHOLD must be positive")
	}
	if s.AgreementTolerance <= 0 {
		return fmt.Errorf("STATS_AGREEMENT_TOLERANCE must be positive")
	}
	if s.EpisodeMinutes <= 0 || s.ChapterMinutes <= 0 {
		return fmt.Errorf("STATS_EPISODE_MINUTES and STATS_CHAPTER_MINUTES must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case StoreBackendBadger:
		if !c.Store.InMemory && c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the badger backend")
		}
	case StoreBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis backend")
		}
	case StoreBackendNone:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of badger, redis, none; got %q", c.Store.Backend)
	}
	if c.Store.Backend != StoreBackendNone && c.Store.ReportTTL <= 0 {
		return fmt.Errorf("REPORT_TTL must be positive")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Themes.Enabled {
		if err := validateHTTPURL(c.Themes.BaseURL, "THEMES_API_URL"); err != nil {
			return err
		}
		if c.Themes.RequestsPerSecond <= 0 {
			return fmt.Errorf("THEMES_RPS must be positive")
		}
		if c.Themes.MaxIDs < 1 {
			return fmt.Errorf("THEMES_MAX_IDS must be at least 1")
		}
	}
	if c.Jikan.Enabled {
		if err := validateHTTPURL(c.Jikan.BaseURL, "JIKAN_API_URL"); err != nil {
			return err
		}
		if c.Jikan.RequestsPerSecond <= 0 {
			return fmt.Errorf("JIKAN_RPS must be positive")
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQS must not be negative")
	}
	if c.Security.RateLimitReqs > 0 && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "off", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, off; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL accepts absolute http(s) URLs without query parameters.
func validateHTTPURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}
	return nil
}
