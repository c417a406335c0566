// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package models provides data structures shared across MALWrapped.
// This file contains the MyAnimeList API v2 wire types. Every nested field is
// optional on the wire, so pointers and zero values are both legitimate and the
// stats normalizer owns the defaults.
package models

// Picture is the MAL main_picture object.
type Picture struct {
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// URL returns the medium picture, falling back to the large one.
func (p *Picture) URL() string {
	if p == nil {
		return ""
	}
	if p.Medium != "" {
		return p.Medium
	}
	return p.Large
}

// NamedRef is a {id, name} reference used for genres and studios.
type NamedRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

// Season is the MAL start_season object.
type Season struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
}

// AnimeNode is the "node" half of an animelist item.
type AnimeNode struct {
	ID                     int        `json:"id"`
	Title                  string     `json:"title"`
	MainPicture            *Picture   `json:"main_picture,omitempty"`
	Genres                 []NamedRef `json:"genres,omitempty"`
	Studios                []NamedRef `json:"studios,omitempty"`
	StartSeason            *Season    `json:"start_season,omitempty"`
	Mean                   *float64   `json:"mean,omitempty"`
	NumListUsers           *int       `json:"num_list_users,omitempty"`
	NumScoringUsers        *int       `json:"num_scoring_users,omitempty"`
	NumEpisodes            *int       `json:"num_episodes,omitempty"`
	AverageEpisodeDuration *int       `json:"average_episode_duration,omitempty"` // seconds
}

// AnimeListStatus is the "list_status" half of an animelist item.
type AnimeListStatus struct {
	Status             string `json:"status,omitempty"`
	Score              int    `json:"score,omitempty"`
	StartDate          string `json:"start_date,omitempty"`
	FinishDate         string `json:"finish_date,omitempty"`
	NumEpisodesWatched int    `json:"num_episodes_watched,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// AnimeListItem is one element of the animelist "data" array.
type AnimeListItem struct {
	Node       *AnimeNode       `json:"node,omitempty"`
	ListStatus *AnimeListStatus `json:"list_status,omitempty"`
}

// ID returns the node ID, or 0 when the node is missing.
func (i AnimeListItem) ID() int {
	if i.Node == nil {
		return 0
	}
	return i.Node.ID
}

// PersonName is the first/last name pair MAL uses for people.
type PersonName struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// MangaAuthor is one element of a manga node's "authors" array.
type MangaAuthor struct {
	Node PersonName `json:"node"`
	Role string     `json:"role,omitempty"`
}

// MangaNode is the "node" half of a mangalist item.
type MangaNode struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	MainPicture  *Picture      `json:"main_picture,omitempty"`
	Genres       []NamedRef    `json:"genres,omitempty"`
	Authors      []MangaAuthor `json:"authors,omitempty"`
	Mean         *float64      `json:"mean,omitempty"`
	NumListUsers *int          `json:"num_list_users,omitempty"`
	NumChapters  *int          `json:"num_chapters,omitempty"`
}

// MangaListStatus is the "list_status" half of a mangalist item.
type MangaListStatus struct {
	Status          string `json:"status,omitempty"`
	Score           int    `json:"score,omitempty"`
	StartDate       string `json:"start_date,omitempty"`
	FinishDate      string `json:"finish_date,omitempty"`
	NumChaptersRead int    `json:"num_chapters_read,omitempty"`
	NumVolumesRead  int    `json:"num_volumes_read,omitempty"`
}

// MangaListItem is one element of the mangalist "data" array.
type MangaListItem struct {
	Node       *MangaNode       `json:"node,omitempty"`
	ListStatus *MangaListStatus `json:"list_status,omitempty"`
}

// ID returns the node ID, or 0 when the node is missing.
func (i MangaListItem) ID() int {
	if i.Node == nil {
		return 0
	}
	return i.Node.ID
}

// Paging is the MAL paging object. Next is empty on the last page.
type Paging struct {
	Previous string `json:"previous,omitempty"`
	Next     string `json:"next,omitempty"`
}

// AnimeListResponse is one page of /users/{user}/animelist.
type AnimeListResponse struct {
	Data   []AnimeListItem `json:"data"`
	Paging Paging          `json:"paging"`
}

// MangaListResponse is one page of /users/{user}/mangalist.
type MangaListResponse struct {
	Data   []MangaListItem `json:"data"`
	Paging Paging          `json:"paging"`
}

// AnimeStatistics is the anime_statistics block of the user profile.
type AnimeStatistics struct {
	NumItemsWatching    int     `json:"num_items_watching"`
	NumItemsCompleted   int     `json:"num_items_completed"`
	NumItemsOnHold      int     `json:"num_items_on_hold"`
	NumItemsDropped     int     `json:"num_items_dropped"`
	NumItemsPlanToWatch int     `json:"num_items_plan_to_watch"`
	NumItems            int     `json:"num_items"`
	NumDaysWatched      float64 `json:"num_days_watched"`
	NumDays             float64 `json:"num_days"`
	NumEpisodes         int     `json:"num_episodes"`
	MeanScore           float64 `json:"mean_score"`
}

// MangaStatistics is the manga_statistics block of the user profile.
type MangaStatistics struct {
	NumItemsReading    int     `json:"num_items_reading"`
	NumItemsCompleted  int     `json:"num_items_completed"`
	NumItemsOnHold     int     `json:"num_items_on_hold"`
	NumItemsDropped    int     `json:"num_items_dropped"`
	NumItemsPlanToRead int     `json:"num_items_plan_to_read"`
	NumItems           int     `json:"num_items"`
	NumDaysRead        float64 `json:"num_days_read"`
	NumChapters        int     `json:"num_chapters"`
	NumVolumes         int     `json:"num_volumes"`
	MeanScore          float64 `json:"mean_score"`
}

// User is the /users/@me response.
type User struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Picture         string           `json:"picture,omitempty"`
	JoinedAt        string           `json:"joined_at,omitempty"`
	AnimeStatistics *AnimeStatistics `json:"anime_statistics,omitempty"`
	MangaStatistics *MangaStatistics `json:"manga_statistics,omitempty"`
}

// Person is the /people/{id} response.
type Person struct {
	ID          int      `json:"id"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	MainPicture *Picture `json:"main_picture,omitempty"`
}

// TokenResponse is the MAL OAuth2 token endpoint response.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
