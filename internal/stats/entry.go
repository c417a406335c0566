// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import "time"

// MediaKind distinguishes anime entries from manga entries.
type MediaKind string

const (
	KindAnime MediaKind = "anime"
	KindManga MediaKind = "manga"
)

// Status is the normalized list status of an entry.
type Status string

const (
	StatusWatching    Status = "watching"
	StatusCompleted   Status = "completed"
	StatusOnHold      Status = "on_hold"
	StatusDropped     Status = "dropped"
	StatusPlanToWatch Status = "plan_to_watch"
	StatusUnknown     Status = "unknown"
)

// ParseStatus maps a MAL list status to a Status.
// Manga statuses "reading" and "plan_to_read" fold into their anime twins.
func ParseStatus(s string) Status {
	switch s {
	case "watching", "reading":
		return StatusWatching
	case "completed":
		return StatusCompleted
	case "on_hold":
		return StatusOnHold
	case "dropped":
		return StatusDropped
	case "plan_to_watch", "plan_to_read":
		return StatusPlanToWatch
	default:
		return StatusUnknown
	}
}

// ListEntry is one normalized title from a user's list.
//
// Zero values carry meaning:
//   - UserScore 0 is "unrated"
//   - CommunityMean 0 is "no community mean"
//   - CommunityPopularity 0 is "unknown popularity", not "nobody"
//   - FinishDate nil means the entry has not been marked finished
type ListEntry struct {
	ID                  int        `json:"id"`
	Title               string     `json:"title"`
	Kind                MediaKind  `json:"kind"`
	Genres              []string   `json:"genres"`
	Studios             []string   `json:"studios"`
	Authors             []string   `json:"authors"`
	UserScore           int        `json:"user_score"`
	CommunityMean       float64    `json:"community_mean"`
	CommunityPopularity int        `json:"community_popularity"`
	Status              Status     `json:"status"`
	FinishDate          *time.Time `json:"finish_date,omitempty"`
	UnitsConsumed       int        `json:"units_consumed"`
	UnitLengthMinutes   float64    `json:"unit_length_minutes"`
	Picture             string     `json:"picture,omitempty"`
}

// Rated reports whether the user scored the entry.
func (e ListEntry) Rated() bool {
	return e.UserScore > 0
}

// PopularityKnown reports whether the community popularity is known.
func (e ListEntry) PopularityKnown() bool {
	return e.CommunityPopularity > 0
}

// FinishedIn reports whether the entry was finished during year.
func (e ListEntry) FinishedIn(year int) bool {
	return e.FinishDate != nil && e.FinishDate.Year() == year
}
