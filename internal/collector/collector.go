// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
collector.go - Sequential Pagination Collector

Collect drives a paged source until it is exhausted and returns the
concatenated, de-duplicated items in receipt order.

Stop conditions:
  - HasNext is false: complete
  - A page is empty while HasNext is true: complete (inconsistent paging
    metadata is treated as exhaustion)
  - The fetch returns an error: partial, Err set
  - The context is cancelled between pages: partial, Err set
  - MaxPages reached: partial

Collect never returns an error of its own. The caller inspects
Result.Complete and Result.Err and decides whether a partial list is usable.
Retries are the fetcher's business.
*/

//nolint:staticcheck // File documentation, not package doc
package collector

import (
	"context"
	"time"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 100

// Identifiable is an item with a stable identifier used for de-duplication.
type Identifiable interface {
	ID() int
}

// Page is one response from a paged source.
type Page[T any] struct {
	Items   []T
	HasNext bool
}

// PageFunc fetches the page starting at offset with at most limit items.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (Page[T], error)

// Progress is reported after every page.
type Progress struct {
	List  string `json:"list"`
	Pages int    `json:"pages"`
	Items int    `json:"items"`
}

// Result is the outcome of a collection run. Pages counts pages actually
// received; a failed fetch is not a page.
type Result[T any] struct {
	Items      []T
	Pages      int
	Duplicates int
	Complete   bool
	Err        error
	Duration   time.Duration
}

type options struct {
	name     string
	pageSize int
	maxPages int
	progress func(Progress)
}

// Option configures Collect.
type Option func(*options)

// WithName labels logs, metrics and progress reports.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithPageSize sets the limit passed to the fetcher.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithMaxPages bounds the number of fetches. Zero means unbounded.
func WithMaxPages(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxPages = n
		}
	}
}

// WithProgress registers a callback invoked after each page.
func WithProgress(fn func(Progress)) Option {
	return func(o *options) { o.progress = fn }
}

// Collect fetches pages sequentially until the source is exhausted.
func Collect[T Identifiable](ctx context.Context, fetch PageFunc[T], opts ...Option) Result[T] {
	o := options{name: "list", pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	res := Result[T]{Items: make([]T, 0)}
	seen := make(map[int]struct{})
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}
		if o.maxPages > 0 && res.Pages >= o.maxPages {
			logging.Warn().Str("list", o.name).Int("max_pages", o.maxPages).Msg("Page limit reached, list truncated")
			break
		}

		page, err := fetch(ctx, offset, o.pageSize)
		if err != nil {
			res.Err = err
			logging.Warn().Err(err).Str("list", o.name).Int("offset", offset).Int("collected", len(res.Items)).
				Msg("Page fetch failed, keeping partial list")
			break
		}
		res.Pages++
		metrics.RecordCollectorPage(o.name, len(page.Items))

		for _, item := range page.Items {
			// Items without an id pass through for the normalizer to reject.
			if id := item.ID(); id > 0 {
				if _, dup := seen[id]; dup {
					res.Duplicates++
					continue
				}
				seen[id] = struct{}{}
			}
			res.Items = append(res.Items, item)
		}

		if o.progress != nil {
			o.progress(Progress{List: o.name, Pages: res.Pages, Items: len(res.Items)})
		}

		if !page.HasNext {
			res.Complete = true
			break
		}
		if len(page.Items) == 0 {
			logging.Debug().Str("list", o.name).Int("offset", offset).Msg("Empty page with next link, treating as end of list")
			res.Complete = true
			break
		}
		offset += len(page.Items)
	}

	res.Duration = time.Since(start)
	metrics.RecordCollectorRun(o.name, len(res.Items), res.Complete)

	logging.Debug().
		Str("list", o.name).
		Int("pages", res.Pages).
		Int("items", len(res.Items)).
		Int("duplicates", res.Duplicates).
		Bool("complete", res.Complete).
		Dur("duration", res.Duration).
		Msg("Collection finished")

	return res
}
