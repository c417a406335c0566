// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
Package stats derives the year-in-review statistics from a user's list.

The package is a pure pipeline over an in-memory slice of ListEntry values:

	raw MAL records -> Normalizer -> []ListEntry -> ComputeStats -> Stats

Stages:
  - Normalizer: maps raw MyAnimeList records to ListEntry, applying defaults
    for every optional field and counting records it had to skip
  - Counting aggregators: CountLabels fans each entry out over its genres,
    studios or authors; CountSeasons buckets finished entries by season
  - Ranking: Rank orders label counts (count desc, first-seen on ties)
  - Selection: TopRated and HiddenGems pick and order entries
  - Calculators: WatchTime, SeasonalHighlight, CommunityAgreement

Determinism:

Every function in this package is a function of its arguments. There is no
clock, no package-level mutable state and no cache. Ties are always broken by
first-seen order in the input slice, so the same list yields the same Stats.

Totality:

ComputeStats never fails. Absent optional fields shrink the eligible set of a
calculator instead of aborting it, and an empty list produces empty rankings,
zero watch time, no seasonal highlight and an undefined agreement percentage.

Example:

	n := stats.NewNormalizer()
	entries := n.NormalizeAnimeList(items)
	s := stats.ComputeStats(entries, stats.DefaultOptions(2025))
	fmt.Println(s.TopGenres, s.TotalWatchTimeHours, n.Skipped())
*/
package stats
