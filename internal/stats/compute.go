// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

// Defaults for Options.
const (
	DefaultTopN                   = 5
	DefaultGemPopularityThreshold = 100000
	DefaultGemScoreThreshold      = 8
	DefaultAgreementTolerance     = 1.5
)

// Options are the explicit inputs of ComputeStats. Zero-valued fields take
// the package defaults, except TargetYear which must be supplied.
type Options struct {
	TopN                     int     `json:"top_n"`
	TargetYear               int     `json:"target_year"`
	GemPopularityThreshold   int     `json:"gem_popularity_threshold"`
	GemScoreThreshold        int     `json:"gem_score_threshold"`
	AgreementTolerance       float64 `json:"agreement_tolerance"`
	IncludeUnknownPopularity bool    `json:"include_unknown_popularity"`
}

// DefaultOptions returns the default options for year.
func DefaultOptions(year int) Options {
	return Options{
		TopN:                   DefaultTopN,
		TargetYear:             year,
		GemPopularityThreshold: DefaultGemPopularityThreshold,
		GemScoreThreshold:      DefaultGemScoreThreshold,
		AgreementTolerance:     DefaultAgreementTolerance,
	}
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.GemPopularityThreshold <= 0 {
		o.GemPopularityThreshold = DefaultGemPopularityThreshold
	}
	if o.GemScoreThreshold <= 0 {
		o.GemScoreThreshold = DefaultGemScoreThreshold
	}
	if o.AgreementTolerance <= 0 {
		o.AgreementTolerance = DefaultAgreementTolerance
	}
	return o
}

// GemCriteria returns the hidden-gem predicate described by o.
func (o Options) GemCriteria() GemCriteria {
	o = o.withDefaults()
	return GemCriteria{
		ScoreThreshold:           o.GemScoreThreshold,
		PopularityThreshold:      o.GemPopularityThreshold,
		IncludeUnknownPopularity: o.IncludeUnknownPopularity,
	}
}

// Stats is the immutable summary of one list.
//
// CommunityAgreementPercent is nil when no entry had both a user score and a
// community mean. SeasonalHighlight is nil when nothing was finished during
// the target year.
type Stats struct {
	TargetYear                int              `json:"target_year"`
	EntryCount                int              `json:"entry_count"`
	CompletedCount            int              `json:"completed_count"`
	FinishedInYear            int              `json:"finished_in_year"`
	TopGenres                 []LabelCount     `json:"top_genres"`
	TopStudios                []LabelCount     `json:"top_studios"`
	TopAuthors                []LabelCount     `json:"top_authors"`
	TopRated                  []ListEntry      `json:"top_rated"`
	HiddenGems                []ListEntry      `json:"hidden_gems"`
	SeasonalHighlight         *SeasonHighlight `json:"seasonal_highlight"`
	TotalWatchTimeMinutes     int64            `json:"total_watch_time_minutes"`
	TotalWatchTimeHours       int64            `json:"total_watch_time_hours"`
	TotalUnitsConsumed        int64            `json:"total_units_consumed"`
	CommunityAgreementPercent *int             `json:"community_agreement_percent"`
}

// ComputeStats derives Stats from entries. It never fails: a nil or empty
// slice yields empty rankings, zero totals, no highlight and an undefined
// agreement percentage.
func ComputeStats(entries []ListEntry, opts Options) Stats {
	opts = opts.withDefaults()

	s := Stats{
		TargetYear:                opts.TargetYear,
		EntryCount:                len(entries),
		TopGenres:                 Rank(CountLabels(entries, Genres), opts.TopN),
		TopStudios:                Rank(CountLabels(entries, Studios), opts.TopN),
		TopAuthors:                Rank(CountLabels(entries, Authors), opts.TopN),
		TopRated:                  TopRated(entries, opts.TopN),
		HiddenGems:                HiddenGems(entries, opts.GemCriteria(), opts.TopN),
		SeasonalHighlight:         SeasonalHighlight(entries, opts.TargetYear),
		CommunityAgreementPercent: CommunityAgreement(entries, opts.AgreementTolerance),
	}

	wt := ComputeWatchTime(entries)
	s.TotalWatchTimeMinutes = wt.Minutes
	s.TotalWatchTimeHours = wt.Hours
	s.TotalUnitsConsumed = wt.Units

	for _, e := range entries {
		if e.Status == StatusCompleted {
			s.CompletedCount++
		}
		if e.FinishedIn(opts.TargetYear) {
			s.FinishedInYear++
		}
	}

	return s
}
