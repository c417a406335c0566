// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package config loads MALWrapped configuration.
//
// Configuration is layered with koanf: built-in defaults, then an optional
// YAML file, then environment variables. See Load for the precedence rules
// and envMappings for the supported variable names.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	MAL      MALConfig      `koanf:"mal"`
	OAuth    OAuthConfig    `koanf:"oauth"`
	Stats    StatsConfig    `koanf:"stats"`
	Store    StoreConfig    `koanf:"store"`
	Redis    RedisConfig    `koanf:"redis"`
	Themes   ThemesConfig   `koanf:"themes"`
	Jikan    JikanConfig    `koanf:"jikan"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// MALConfig configures the MyAnimeList API client.
type MALConfig struct {
	BaseURL         string        `koanf:"base_url"`
	PageSize        int           `koanf:"page_size"`
	MaxPages        int           `koanf:"max_pages"`
	Timeout         time.Duration `koanf:"timeout"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryBaseDelay  time.Duration `koanf:"retry_base_delay"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// OAuthConfig configures the MAL OAuth2 PKCE flow.
type OAuthConfig struct {
	ClientID     string        `koanf:"client_id"`
	ClientSecret string        `koanf:"client_secret"`
	RedirectURI  string        `koanf:"redirect_uri"`
	AuthorizeURL string        `koanf:"authorize_url"`
	TokenURL     string        `koanf:"token_url"`
	StateTTL     time.Duration `koanf:"state_ttl"`
}

// StatsConfig holds the defaults handed to stats.ComputeStats.
type StatsConfig struct {
	TopN                        int     `koanf:"top_n"`
	GemPopularityThreshold      int     `koanf:"gem_popularity_threshold"`
	GemScoreThreshold           int     `koanf:"gem_score_threshold"`
	GemIncludeUnknownPopularity bool    `koanf:"gem_include_unknown_popularity"`
	AgreementTolerance          float64 `koanf:"agreement_tolerance"`
	EpisodeMinutes              float64 `koanf:"episode_minutes"`
	ChapterMinutes              float64 `koanf:"chapter_minutes"`
}

// Store backends.
const (
	StoreBackendBadger = "badger"
	StoreBackendRedis  = "redis"
	StoreBackendNone   = "none"
)

// StoreConfig configures shared report persistence.
type StoreConfig struct {
	Backend    string        `koanf:"backend"`
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	ReportTTL  time.Duration `koanf:"report_ttl"`
	GCInterval time.Duration `koanf:"gc_interval"`
}

// RedisConfig configures the redis report store backend.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// ThemesConfig configures the animethemes.moe client.
type ThemesConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	MaxIDs            int           `koanf:"max_ids"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// JikanConfig configures the Jikan client used for person pictures.
type JikanConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	CacheSize         int           `koanf:"cache_size"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig configures CORS and inbound rate limiting.
type SecurityConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
