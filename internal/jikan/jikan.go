// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package jikan fetches person pictures from the Jikan API, an unofficial
// MyAnimeList mirror that exposes images the official API omits.
package jikan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/malwrapped/internal/cache"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

// DefaultBaseURL is the Jikan v4 root.
const DefaultBaseURL = "https://api.jikan.moe/v4"

// ErrNotFound is returned when Jikan has no such person.
var ErrNotFound = errors.New("jikan: person not found")

// PersonPicture is the picture and display name of a person.
type PersonPicture struct {
	Picture string `json:"picture,omitempty"`
	Name    string `json:"name,omitempty"`
}

type personResponse struct {
	Data struct {
		Name   string `json:"name"`
		Images struct {
			JPG struct {
				ImageURL string `json:"image_url"`
			} `json:"jpg"`
		} `json:"images"`
	} `json:"data"`
}

// Config configures a Client.
type Config struct {
	BaseURL           string
	RequestsPerSecond float64
	Timeout           time.Duration
	HTTPClient        *http.Client

	// CacheSize and CacheTTL bound the picture cache. Unknown people are
	// cached as nil.
	CacheSize int
	CacheTTL  time.Duration
}

// Client queries Jikan under its published 3 requests/second limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.LRU[int, *PersonPicture]
}

// NewClient creates a Client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cache:      cache.NewLRU[int, *PersonPicture]("jikan", cfg.CacheSize, cfg.CacheTTL),
	}
}

// PersonPicture fetches the picture and name for a MAL person id.
func (c *Client) PersonPicture(ctx context.Context, id int) (*PersonPicture, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid person id %d", id)
	}
	if pic, ok := c.cache.Get(id); ok {
		if pic == nil {
			return nil, ErrNotFound
		}
		return pic, nil
	}

	pic, err := c.fetchPicture(ctx, id)
	switch {
	case err == nil:
		c.cache.Add(id, pic)
	case errors.Is(err, ErrNotFound):
		c.cache.Add(id, nil)
	}
	return pic, err
}

func (c *Client) fetchPicture(ctx context.Context, id int) (*PersonPicture, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/people/"+strconv.Itoa(id), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordEnrichmentLookup("jikan", false, err)
		return nil, fmt.Errorf("failed to query jikan for person %d: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordEnrichmentLookup("jikan", false, nil)
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("jikan returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		metrics.RecordEnrichmentLookup("jikan", false, err)
		return nil, err
	}

	var body personResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordEnrichmentLookup("jikan", false, err)
		return nil, fmt.Errorf("failed to decode jikan response: %w", err)
	}

	metrics.RecordEnrichmentLookup("jikan", true, nil)
	return &PersonPicture{
		Picture: body.Data.Images.JPG.ImageURL,
		Name:    body.Data.Name,
	}, nil
}
