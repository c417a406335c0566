// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/malwrapped/internal/collector"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/stats"
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute stats from exported list JSON",
	Long: `Compute reads anime and/or manga list JSON as returned by the MAL API
(/users/@me/animelist and /users/@me/mangalist with fields=list_status)
and prints one stats object per list under "anime" and "manga". A file may
hold a single page object or a JSON array of page objects; entries repeated
across pages are counted once.`,
	RunE: runCompute,
}

var (
	computeAnimePath      string
	computeMangaPath      string
	computeYear           int
	computeTopN           int
	computeIncludeUnknown bool
	computeTolerance      float64
	computeEpisodeMinutes float64
	computeChapterMinutes float64
)

func init() {
	rootCmd.AddCommand(computeCmd)

	f := computeCmd.Flags()
	f.StringVar(&computeAnimePath, "anime", "", "Path to anime list JSON (- for stdin)")
	f.StringVar(&computeMangaPath, "manga", "", "Path to manga list JSON (- for stdin)")
	f.IntVar(&computeYear, "year", time.Now().Year(), "Target year")
	f.IntVar(&computeTopN, "top-n", stats.DefaultTopN, "Length of every ranking")
	f.BoolVar(&computeIncludeUnknown, "include-unknown-popularity", false, "Count entries with unknown popularity as hidden gem candidates")
	f.Float64Var(&computeTolerance, "tolerance", stats.DefaultAgreementTolerance, "Community agreement tolerance in score points")
	f.Float64Var(&computeEpisodeMinutes, "episode-minutes", stats.DefaultUnitLengthMinutes, "Minutes per episode when MAL omits a duration")
	f.Float64Var(&computeChapterMinutes, "chapter-minutes", stats.DefaultChapterLengthMinutes, "Minutes per manga chapter")
}

// computeResult holds one Stats per list given on the command line.
type computeResult struct {
	Anime *stats.Stats `json:"anime,omitempty"`
	Manga *stats.Stats `json:"manga,omitempty"`
}

func runCompute(cmd *cobra.Command, _ []string) error {
	if computeAnimePath == "" && computeMangaPath == "" {
		return errors.New("at least one of --anime or --manga is required")
	}
	if computeAnimePath == "-" && computeMangaPath == "-" {
		return errors.New("only one list can be read from stdin")
	}

	ctx := cmd.Context()
	opts := stats.Options{
		TopN:                     computeTopN,
		TargetYear:               computeYear,
		AgreementTolerance:       computeTolerance,
		IncludeUnknownPopularity: computeIncludeUnknown,
	}

	var result computeResult
	if computeAnimePath != "" {
		pages, err := readListFile[models.AnimeListResponse](cmd.InOrStdin(), computeAnimePath)
		if err != nil {
			return fmt.Errorf("failed to read anime list: %w", err)
		}
		data := make([][]models.AnimeListItem, len(pages))
		for i, page := range pages {
			data[i] = page.Data
		}
		items, err := collectPages(ctx, "animelist", data)
		if err != nil {
			return fmt.Errorf("failed to read anime list: %w", err)
		}

		normalizer := newNormalizer()
		entries := normalizer.NormalizeAnimeList(items)
		logSkipped("animelist", normalizer)
		s := stats.ComputeStats(entries, opts)
		result.Anime = &s
	}
	if computeMangaPath != "" {
		pages, err := readListFile[models.MangaListResponse](cmd.InOrStdin(), computeMangaPath)
		if err != nil {
			return fmt.Errorf("failed to read manga list: %w", err)
		}
		data := make([][]models.MangaListItem, len(pages))
		for i, page := range pages {
			data[i] = page.Data
		}
		items, err := collectPages(ctx, "mangalist", data)
		if err != nil {
			return fmt.Errorf("failed to read manga list: %w", err)
		}

		normalizer := newNormalizer()
		entries := normalizer.NormalizeMangaList(items)
		logSkipped("mangalist", normalizer)
		s := stats.ComputeStats(entries, opts)
		result.Manga = &s
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

func newNormalizer() *stats.Normalizer {
	return stats.NewNormalizer(
		stats.WithEpisodeMinutes(computeEpisodeMinutes),
		stats.WithChapterMinutes(computeChapterMinutes),
	)
}

func logSkipped(list string, n *stats.Normalizer) {
	if skipped := n.Skipped(); skipped > 0 {
		logging.Warn().Str("list", list).Int("skipped", skipped).Msg("Skipped malformed list entries")
	}
}

// collectPages merges exported pages the same way a live fetch does, so an
// id repeated across pages is counted once. Empty pages are dropped first
// because the collector treats an empty page as the end of the list.
func collectPages[T collector.Identifiable](ctx context.Context, list string, pages [][]T) ([]T, error) {
	nonEmpty := make([][]T, 0, len(pages))
	for _, p := range pages {
		if len(p) > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}

	next := 0
	replay := func(_ context.Context, _, _ int) (collector.Page[T], error) {
		if next >= len(nonEmpty) {
			return collector.Page[T]{}, nil
		}
		page := collector.Page[T]{Items: nonEmpty[next], HasNext: next < len(nonEmpty)-1}
		next++
		return page, nil
	}

	res := collector.Collect[T](ctx, replay, collector.WithName(list))
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Duplicates > 0 {
		logging.Info().Str("list", list).Int("duplicates", res.Duplicates).Msg("Dropped entries repeated across pages")
	}
	return res.Items, nil
}

// readListFile reads path (or stdin for "-") and decodes either one page
// or an array of pages.
func readListFile[P any](stdin io.Reader, path string) ([]P, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // operator supplied path
	}
	if err != nil {
		return nil, err
	}
	return decodePages[P](data)
}

func decodePages[P any](data []byte) ([]P, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	if data[0] == '[' {
		var pages []P
		if err := json.Unmarshal(data, &pages); err != nil {
			return nil, fmt.Errorf("invalid page array: %w", err)
		}
		return pages, nil
	}
	var page P
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("invalid page: %w", err)
	}
	return []P{page}, nil
}
