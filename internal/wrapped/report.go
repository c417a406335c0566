// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package wrapped

import (
	"time"

	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/stats"
)

// Report is a user's year in review across both lists.
//
// The report is immutable once generated. When a store is configured it is
// persisted and ShareToken carries the token that reads it back.
type Report struct {
	ID          string    `json:"id"`
	Year        int       `json:"year"`
	GeneratedAt time.Time `json:"generated_at"`
	ShareToken  string    `json:"share_token,omitempty"`

	User UserSummary `json:"user"`

	Anime        stats.Stats       `json:"anime"`
	Manga        stats.Stats       `json:"manga"`
	AnimeSummary stats.ListSummary `json:"anime_summary"`
	MangaSummary stats.ListSummary `json:"manga_summary"`

	Collection Collection `json:"collection"`
}

// UserSummary is the profile slice shown on the report.
type UserSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Picture  string `json:"picture,omitempty"`
	JoinedAt string `json:"joined_at,omitempty"`

	// Lifetime figures from the MAL profile, not limited to Year.
	AnimeDaysWatched      float64 `json:"anime_days_watched"`
	AnimeDaysWatchedLabel string  `json:"anime_days_watched_label"`
	MangaDaysRead         float64 `json:"manga_days_read"`
	MangaDaysReadLabel    string  `json:"manga_days_read_label"`
	AnimeMeanScore        float64 `json:"anime_mean_score"`
	MangaMeanScore        float64 `json:"manga_mean_score"`
}

// Collection records how complete the upstream lists were.
type Collection struct {
	Anime ListCollection `json:"anime"`
	Manga ListCollection `json:"manga"`
}

// ListCollection is the collection outcome for one list.
type ListCollection struct {
	Complete   bool   `json:"complete"`
	Pages      int    `json:"pages"`
	Items      int    `json:"items"`
	Duplicates int    `json:"duplicates"`
	Skipped    int    `json:"skipped"`
	Error      string `json:"error,omitempty"`
}

// Complete reports whether both lists were collected in full.
func (r *Report) Complete() bool {
	return r.Collection.Anime.Complete && r.Collection.Manga.Complete
}

func summarizeUser(u *models.User) UserSummary {
	s := UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Picture:  u.Picture,
		JoinedAt: u.JoinedAt,
	}
	if a := u.AnimeStatistics; a != nil {
		s.AnimeDaysWatched = a.NumDaysWatched
		s.AnimeMeanScore = a.MeanScore
	}
	if m := u.MangaStatistics; m != nil {
		s.MangaDaysRead = m.NumDaysRead
		s.MangaMeanScore = m.MeanScore
	}
	s.AnimeDaysWatchedLabel = stats.FormatDays(s.AnimeDaysWatched)
	s.MangaDaysReadLabel = stats.FormatDays(s.MangaDaysRead)
	return s
}
