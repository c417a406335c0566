// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import (
	"fmt"
	"math"
)

// ListSummary is the total/completed headline for a list.
type ListSummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// SummarizeList counts all entries and completed entries.
func SummarizeList(entries []ListEntry) ListSummary {
	s := ListSummary{Total: len(entries)}
	for _, e := range entries {
		if e.Status == StatusCompleted {
			s.Completed++
		}
	}
	return s
}

// FormatDays renders a day count for display:
//
//	0.5   -> "12 hours"
//	40.2  -> "40 days"
//	400   -> "1 year, 35 days"
//	800.4 -> "2 years, 70 days"
func FormatDays(days float64) string {
	if days < 1 {
		return fmt.Sprintf("%d hours", int(math.Round(days*24)))
	}
	if days < 365 {
		return fmt.Sprintf("%d days", int(math.Round(days)))
	}
	years := int(math.Floor(days / 365))
	remaining := int(math.Round(math.Mod(days, 365)))
	if years == 1 {
		return fmt.Sprintf("%d year, %d days", years, remaining)
	}
	return fmt.Sprintf("%d years, %d days", years, remaining)
}
