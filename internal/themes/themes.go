// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package themes looks up anime opening themes on animethemes.moe.
//
// A lookup resolves a MAL anime id to one playable opening: OP1 when the
// anime has one, otherwise the first OP, and inside that theme the video
// whose filename carries "-OP1", otherwise the first video of the first
// entry that has any. The result points at the audio rendition of the video.
package themes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/malwrapped/internal/cache"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

// DefaultBaseURL is the animethemes.moe API root.
const DefaultBaseURL = "https://api.animethemes.moe"

// Theme is a resolved opening for one MAL anime.
type Theme struct {
	MALID     int    `json:"mal_id"`
	AnimeName string `json:"anime_name"`
	AnimeSlug string `json:"anime_slug"`
	ThemeSlug string `json:"theme_slug"`
	ThemeType string `json:"theme_type"`
	AudioURL  string `json:"audio_url"`
	Basename  string `json:"basename,omitempty"`
	Filename  string `json:"filename"`
}

type animeResponse struct {
	Anime []anime `json:"anime"`
}

type anime struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	AnimeThemes []animeTheme `json:"animethemes"`
}

type animeTheme struct {
	Type    string       `json:"type"`
	Slug    string       `json:"slug"`
	Entries []themeEntry `json:"animethemeentries"`
}

type themeEntry struct {
	Videos []video `json:"videos"`
}

type video struct {
	Basename string `json:"basename"`
	Filename string `json:"filename"`
}

// Config configures a Client.
type Config struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client

	// CacheSize and CacheTTL bound the per-anime result cache. Misses are
	// cached too.
	CacheSize int
	CacheTTL  time.Duration
}

// Client queries animethemes.moe under a client-side rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.LRU[int, *Theme]
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:      cache.NewLRU[int, *Theme]("animethemes", cfg.CacheSize, cfg.CacheTTL),
	}
}

// OpeningTheme resolves the opening for a MAL anime id. It returns nil and
// no error when the anime or a playable opening is not found.
func (c *Client) OpeningTheme(ctx context.Context, malID int) (*Theme, error) {
	if theme, ok := c.cache.Get(malID); ok {
		return theme, nil
	}
	theme, err := c.fetchOpening(ctx, malID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(malID, theme)
	return theme, nil
}

func (c *Client) fetchOpening(ctx context.Context, malID int) (*Theme, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("filter[has]", "resources")
	q.Set("filter[site]", "MyAnimeList")
	q.Set("filter[external_id]", strconv.Itoa(malID))
	q.Set("include", "animethemes.animethemeentries.videos")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/anime?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordEnrichmentLookup("animethemes", false, err)
		return nil, fmt.Errorf("failed to query animethemes for %d: %w", malID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("animethemes returned status %d for %d", resp.StatusCode, malID)
		metrics.RecordEnrichmentLookup("animethemes", false, err)
		return nil, err
	}

	var body animeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordEnrichmentLookup("animethemes", false, err)
		return nil, fmt.Errorf("failed to decode animethemes response: %w", err)
	}
	if len(body.Anime) == 0 {
		metrics.RecordEnrichmentLookup("animethemes", false, nil)
		return nil, nil
	}

	theme := c.selectOpening(malID, body.Anime[0])
	metrics.RecordEnrichmentLookup("animethemes", theme != nil, nil)
	return theme, nil
}

// OpeningThemes resolves ids one at a time, skipping ids that fail or have
// no opening. Cancellation stops the loop and returns what was found so far.
func (c *Client) OpeningThemes(ctx context.Context, malIDs []int) []Theme {
	out := make([]Theme, 0, len(malIDs))
	for _, id := range malIDs {
		if ctx.Err() != nil {
			break
		}
		theme, err := c.OpeningTheme(ctx, id)
		if err != nil {
			logging.Warn().Err(err).Int("mal_id", id).Msg("Opening theme lookup failed")
			continue
		}
		if theme != nil {
			out = append(out, *theme)
		}
	}
	return out
}

func (c *Client) selectOpening(malID int, a anime) *Theme {
	var ops []animeTheme
	for _, t := range a.AnimeThemes {
		if t.Type == "OP" {
			ops = append(ops, t)
		}
	}
	if len(ops) == 0 {
		return nil
	}

	preferred := ops[0]
	for _, t := range ops {
		if t.Slug == "OP1" {
			preferred = t
			break
		}
	}

	theme, v, ok := preferred, video{}, false
	for _, e := range preferred.Entries {
		if len(e.Videos) == 0 {
			continue
		}
		v, ok = e.Videos[0], true
		for _, candidate := range e.Videos {
			if strings.Contains(candidate.Filename, "-OP1") {
				v = candidate
				break
			}
		}
		break
	}

	if !ok {
		theme, v, ok = firstVideo(ops)
	}
	if !ok || v.Filename == "" {
		return nil
	}

	return &Theme{
		MALID:     malID,
		AnimeName: a.Name,
		AnimeSlug: a.Slug,
		ThemeSlug: theme.Slug,
		ThemeType: theme.Type,
		AudioURL:  c.baseURL + "/audio/" + url.PathEscape(v.Filename) + ".ogg",
		Basename:  v.Basename,
		Filename:  v.Filename,
	}
}

func firstVideo(ops []animeTheme) (animeTheme, video, bool) {
	for _, t := range ops {
		for _, e := range t.Entries {
			if len(e.Videos) > 0 {
				return t, e.Videos[0], true
			}
		}
	}
	return animeTheme{}, video{}, false
}
