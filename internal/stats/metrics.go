// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import "math"

// WatchTime is the total time spent on a list.
type WatchTime struct {
	Minutes int64 `json:"minutes"`
	Hours   int64 `json:"hours"`
	Units   int64 `json:"units"`
}

// ComputeWatchTime sums units * unit length over every entry regardless of
// status. Each entry is rounded to whole minutes before summing so the total
// is additive across disjoint lists.
func ComputeWatchTime(entries []ListEntry) WatchTime {
	var wt WatchTime
	for _, e := range entries {
		if e.UnitsConsumed <= 0 || e.UnitLengthMinutes <= 0 {
			continue
		}
		wt.Units += int64(e.UnitsConsumed)
		wt.Minutes += int64(math.Round(float64(e.UnitsConsumed) * e.UnitLengthMinutes))
	}
	wt.Hours = wt.Minutes / 60
	return wt
}

// CommunityAgreement returns the percentage of comparable entries whose user
// score is within tolerance of the community mean. Comparable entries have
// both a user score and a community mean. The result is nil when no entry is
// comparable.
func CommunityAgreement(entries []ListEntry, tolerance float64) *int {
	considered, agreeing := 0, 0
	for _, e := range entries {
		if !e.Rated() || e.CommunityMean <= 0 {
			continue
		}
		considered++
		if math.Abs(float64(e.UserScore)-e.CommunityMean) <= tolerance {
			agreeing++
		}
	}

	if considered == 0 {
		return nil
	}
	pct := int(math.Round(float64(agreeing) / float64(considered) * 100))
	return &pct
}
