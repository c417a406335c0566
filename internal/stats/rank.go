// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import (
	"math"
	"sort"
)

// LabelCount is one ranked label.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// GemCriteria is the hidden-gem eligibility predicate.
type GemCriteria struct {
	ScoreThreshold           int  `json:"score_threshold"`
	PopularityThreshold      int  `json:"popularity_threshold"`
	IncludeUnknownPopularity bool `json:"include_unknown_popularity"`
}

// Eligible reports whether e is a hidden gem under c.
func (c GemCriteria) Eligible(e ListEntry) bool {
	if e.UserScore < c.ScoreThreshold || !e.Rated() {
		return false
	}
	if !e.PopularityKnown() {
		return c.IncludeUnknownPopularity
	}
	return e.CommunityPopularity < c.PopularityThreshold
}

// Rank orders counts by count descending, breaking ties by first-seen order,
// and keeps at most n labels. The result is never nil.
func Rank(counts *LabelCounts, n int) []LabelCount {
	if counts == nil || n <= 0 {
		return []LabelCount{}
	}

	ranked := make([]LabelCount, 0, counts.Len())
	for _, label := range counts.order {
		ranked = append(ranked, LabelCount{Label: label, Count: counts.counts[label]})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	return truncate(ranked, n)
}

// TopRated returns rated entries by user score descending, first-seen on ties.
func TopRated(entries []ListEntry, n int) []ListEntry {
	if n <= 0 {
		return []ListEntry{}
	}

	rated := make([]ListEntry, 0, len(entries))
	for _, e := range entries {
		if e.Rated() {
			rated = append(rated, e)
		}
	}

	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].UserScore > rated[j].UserScore
	})

	return truncate(rated, n)
}

// HiddenGems returns entries eligible under c ordered by user score
// descending, then popularity ascending, then first-seen. Unknown popularity
// (only present when c admits it) sorts after every known popularity.
func HiddenGems(entries []ListEntry, c GemCriteria, n int) []ListEntry {
	if n <= 0 {
		return []ListEntry{}
	}

	gems := make([]ListEntry, 0)
	for _, e := range entries {
		if c.Eligible(e) {
			gems = append(gems, e)
		}
	}

	sort.SliceStable(gems, func(i, j int) bool {
		if gems[i].UserScore != gems[j].UserScore {
			return gems[i].UserScore > gems[j].UserScore
		}
		return gemPopularity(gems[i]) < gemPopularity(gems[j])
	})

	return truncate(gems, n)
}

func gemPopularity(e ListEntry) int {
	if !e.PopularityKnown() {
		return math.MaxInt
	}
	return e.CommunityPopularity
}

func truncate[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
