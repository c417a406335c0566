// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists config file locations, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/malwrapped/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		MAL: MALConfig{
			BaseURL:         "https://api.myanimelist.net/v2",
			PageSize:        100,
			MaxPages:        200,
			Timeout:         30 * time.Second,
			MaxRetries:      5,
			RetryBaseDelay:  time.Second,
			BreakerFailures: 5,
			BreakerTimeout:  60 * time.Second,
		},
		OAuth: OAuthConfig{
			AuthorizeURL: "https://myanimelist.net/v1/oauth2/authorize",
			TokenURL:     "https://myanimelist.net/v1/oauth2/token",
			StateTTL:     10 * time.Minute,
		},
		Stats: StatsConfig{
			TopN:                   5,
			GemPopularityThreshold: 100000,
			GemScoreThreshold:      8,
			AgreementTolerance:     1.5,
			EpisodeMinutes:         24,
			ChapterMinutes:         5,
		},
		Store: StoreConfig{
			Backend:    StoreBackendBadger,
			Path:       "/data/malwrapped",
			ReportTTL:  30 * 24 * time.Hour,
			GCInterval: 10 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Themes: ThemesConfig{
			Enabled:           true,
			BaseURL:           "https://api.animethemes.moe",
			RequestsPerSecond: 1,
			MaxIDs:            10,
			CacheSize:         4096,
			CacheTTL:          24 * time.Hour,
		},
		Jikan: JikanConfig{
			Enabled:           true,
			BaseURL:           "https://api.jikan.moe/v4",
			RequestsPerSecond: 3,
			CacheSize:         4096,
			CacheTTL:          24 * time.Hour,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   60,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing precedence, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variables to koanf paths. Unlisted variables
// are ignored.
var envMappings = map[string]string{
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	"mal_api_url":          "mal.base_url",
	"mal_page_size":        "mal.page_size",
	"mal_max_pages":        "mal.max_pages",
	"mal_timeout":          "mal.timeout",
	"mal_max_retries":      "mal.max_retries",
	"mal_retry_base_delay": "mal.retry_base_delay",
	"mal_breaker_failures": "mal.breaker_failures",
	"mal_breaker_timeout":  "mal.breaker_timeout",

	"mal_client_id":           "oauth.client_id",
	"mal_client_secret":       "oauth.client_secret",
	"mal_redirect_uri":        "oauth.redirect_uri",
	"mal_oauth_authorize_url": "oauth.authorize_url",
	"mal_oauth_token_url":     "oauth.token_url",
	"oauth_state_ttl":         "oauth.state_ttl",

	"stats_top_n":                          "stats.top_n",
	"stats_gem_popularity_threshold":       "stats.gem_popularity_threshold",
	"stats_gem_score_threshold":            "stats.gem_score_threshold",
	"stats_gem_include_unknown_popularity": "stats.gem_include_unknown_popularity",
	"stats_agreement_tolerance":            "stats.agreement_tolerance",
	"stats_episode_minutes":                "stats.episode_minutes",
	"stats_chapter_minutes":                "stats.chapter_minutes",

	"store_backend":     "store.backend",
	"store_path":        "store.path",
	"store_in_memory":   "store.in_memory",
	"report_ttl":        "store.report_ttl",
	"store_gc_interval": "store.gc_interval",

	"redis_addr":     "redis.addr",
	"redis_password": "redis.password",
	"redis_db":       "redis.db",

	"themes_enabled":    "themes.enabled",
	"themes_api_url":    "themes.base_url",
	"themes_rps":        "themes.requests_per_second",
	"themes_max_ids":    "themes.max_ids",
	"themes_cache_size": "themes.cache_size",
	"themes_cache_ttl":  "themes.cache_ttl",

	"jikan_enabled":    "jikan.enabled",
	"jikan_api_url":    "jikan.base_url",
	"jikan_rps":        "jikan.requests_per_second",
	"jikan_cache_size": "jikan.cache_size",
	"jikan_cache_ttl":  "jikan.cache_ttl",

	"cors_origins":      "security.cors_origins",
	"rate_limit_reqs":   "security.rate_limit_reqs",
	"rate_limit_window": "security.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps e.g. MAL_CLIENT_ID to oauth.client_id.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
