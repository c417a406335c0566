// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package stats

import (
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/malwrapped/internal/models"
)

const (
	// DefaultUnitLengthMinutes is assumed for anime whose episode duration is unknown.
	DefaultUnitLengthMinutes = 24.0

	// DefaultChapterLengthMinutes is the assumed reading time of one manga chapter.
	DefaultChapterLengthMinutes = 5.0
)

// errSkipRecord marks a raw record that lacks an id or a title.
var errSkipRecord = errors.New("record missing id or title")

// finishDateLayouts are the date shapes MAL emits, most precise first.
// A bare year carries no month and is treated as absent.
var finishDateLayouts = []string{"2006-01-02", "2006-01"}

// Normalizer converts raw MAL list records into ListEntry values.
//
// A Normalizer is not safe for concurrent use; create one per pipeline run.
type Normalizer struct {
	episodeMinutes float64
	chapterMinutes float64
	skipped        int
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithEpisodeMinutes overrides the fallback episode length.
func WithEpisodeMinutes(m float64) NormalizerOption {
	return func(n *Normalizer) {
		if m > 0 {
			n.episodeMinutes = m
		}
	}
}

// WithChapterMinutes overrides the assumed chapter reading time.
func WithChapterMinutes(m float64) NormalizerOption {
	return func(n *Normalizer) {
		if m > 0 {
			n.chapterMinutes = m
		}
	}
}

// NewNormalizer creates a Normalizer with the default unit lengths.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		episodeMinutes: DefaultUnitLengthMinutes,
		chapterMinutes: DefaultChapterLengthMinutes,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Skipped returns how many records have been dropped so far.
func (n *Normalizer) Skipped() int {
	return n.skipped
}

// NormalizeAnime maps one animelist record. The boolean is false when the
// record was skipped.
func (n *Normalizer) NormalizeAnime(item models.AnimeListItem) (ListEntry, bool) {
	entry, err := n.animeEntry(item)
	if err != nil {
		n.skipped++
		return ListEntry{}, false
	}
	return entry, true
}

// NormalizeManga maps one mangalist record. The boolean is false when the
// record was skipped.
func (n *Normalizer) NormalizeManga(item models.MangaListItem) (ListEntry, bool) {
	entry, err := n.mangaEntry(item)
	if err != nil {
		n.skipped++
		return ListEntry{}, false
	}
	return entry, true
}

// NormalizeAnimeList maps a whole animelist, preserving order.
func (n *Normalizer) NormalizeAnimeList(items []models.AnimeListItem) []ListEntry {
	entries := make([]ListEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := n.NormalizeAnime(item); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// NormalizeMangaList maps a whole mangalist, preserving order.
func (n *Normalizer) NormalizeMangaList(items []models.MangaListItem) []ListEntry {
	entries := make([]ListEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := n.NormalizeManga(item); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func (n *Normalizer) animeEntry(item models.AnimeListItem) (ListEntry, error) {
	node := item.Node
	if node == nil || node.ID <= 0 || strings.TrimSpace(node.Title) == "" {
		return ListEntry{}, errSkipRecord
	}

	entry := ListEntry{
		ID:                  node.ID,
		Title:               node.Title,
		Kind:                KindAnime,
		Genres:              refNames(node.Genres),
		Studios:             refNames(node.Studios),
		Authors:             []string{},
		CommunityMean:       floatOrZero(node.Mean),
		CommunityPopularity: intOrZero(node.NumListUsers),
		Status:              StatusUnknown,
		UnitLengthMinutes:   n.episodeMinutes,
		Picture:             node.MainPicture.URL(),
	}
	if d := intOrZero(node.AverageEpisodeDuration); d > 0 {
		entry.UnitLengthMinutes = float64(d) / 60
	}

	if ls := item.ListStatus; ls != nil {
		entry.Status = ParseStatus(ls.Status)
		entry.UserScore = clampScore(ls.Score)
		entry.FinishDate = parseFinishDate(ls.FinishDate)
		entry.UnitsConsumed = nonNegative(ls.NumEpisodesWatched)
	}

	return entry, nil
}

func (n *Normalizer) mangaEntry(item models.MangaListItem) (ListEntry, error) {
	node := item.Node
	if node == nil || node.ID <= 0 || strings.TrimSpace(node.Title) == "" {
		return ListEntry{}, errSkipRecord
	}

	entry := ListEntry{
		ID:                  node.ID,
		Title:               node.Title,
		Kind:                KindManga,
		Genres:              refNames(node.Genres),
		Studios:             []string{},
		Authors:             authorNames(node.Authors),
		CommunityMean:       floatOrZero(node.Mean),
		CommunityPopularity: intOrZero(node.NumListUsers),
		Status:              StatusUnknown,
		UnitLengthMinutes:   n.chapterMinutes,
		Picture:             node.MainPicture.URL(),
	}

	if ls := item.ListStatus; ls != nil {
		entry.Status = ParseStatus(ls.Status)
		entry.UserScore = clampScore(ls.Score)
		entry.FinishDate = parseFinishDate(ls.FinishDate)
		entry.UnitsConsumed = nonNegative(ls.NumChaptersRead)
	}

	return entry, nil
}

func refNames(refs []models.NamedRef) []string {
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names
}

func authorNames(authors []models.MangaAuthor) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		name := strings.TrimSpace(a.Node.FirstName + " " + a.Node.LastName)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseFinishDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range finishDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// clampScore keeps scores in the 0-10 MAL range; out-of-range means unrated.
func clampScore(score int) int {
	if score < 0 || score > 10 {
		return 0
	}
	return score
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func intOrZero(p *int) int {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}

func floatOrZero(p *float64) float64 {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}
