// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import (
	"fmt"
	"time"
)

// Season is a meteorological season name.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// SeasonOf maps a month to its season: March-May Spring, June-August Summer,
// September-November Fall, everything else Winter.
func SeasonOf(m time.Month) Season {
	switch {
	case m >= time.March && m <= time.May:
		return SeasonSpring
	case m >= time.June && m <= time.August:
		return SeasonSummer
	case m >= time.September && m <= time.November:
		return SeasonFall
	default:
		return SeasonWinter
	}
}

// SeasonLabel formats a bucket label such as "Spring 2025".
func SeasonLabel(s Season, year int) string {
	return fmt.Sprintf("%s %d", s, year)
}

// SeasonHighlight is the busiest season bucket of the target year.
type SeasonHighlight struct {
	Label          string    `json:"label"`
	Season         Season    `json:"season"`
	Year           int       `json:"year"`
	Count          int       `json:"count"`
	Representative ListEntry `json:"representative"`
}

// seasonBucket is the single source of bucket labels for both counting and
// representative lookup.
func seasonBucket(e ListEntry, year int) (string, bool) {
	if !e.FinishedIn(year) {
		return "", false
	}
	return SeasonLabel(SeasonOf(e.FinishDate.Month()), year), true
}

// CountSeasons buckets entries finished during year by season label.
func CountSeasons(entries []ListEntry, year int) *LabelCounts {
	counts := NewLabelCounts()
	for _, e := range entries {
		if label, ok := seasonBucket(e, year); ok {
			counts.Add(label)
		}
	}
	return counts
}

// SeasonalHighlight picks the bucket with the most entries finished during
// year (first-seen bucket on ties) and, inside it, the entry with the highest
// community mean (first-seen on ties). It returns nil when nothing qualifies.
func SeasonalHighlight(entries []ListEntry, year int) *SeasonHighlight {
	top := Rank(CountSeasons(entries, year), 1)
	if len(top) == 0 {
		return nil
	}
	winner := top[0]

	var rep *ListEntry
	for i := range entries {
		label, ok := seasonBucket(entries[i], year)
		if !ok || label != winner.Label {
			continue
		}
		if rep == nil || entries[i].CommunityMean > rep.CommunityMean {
			rep = &entries[i]
		}
	}

	return &SeasonHighlight{
		Label:          winner.Label,
		Season:         SeasonOf(rep.FinishDate.Month()),
		Year:           year,
		Count:          winner.Count,
		Representative: *rep,
	}
}
