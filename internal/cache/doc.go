// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
Package cache provides a bounded in-memory LRU cache with per-entry TTL.

The enrichment clients (animethemes.moe and Jikan) sit behind strict
client-side rate limits, and the same popular titles and people are looked
up by many users. LRU keeps their answers for a while so repeat lookups
skip the limiter entirely.

# Usage

	themes := cache.NewLRU[int, *Theme]("animethemes", 4096, 6*time.Hour)
	if t, ok := themes.Get(malID); ok {
		return t, nil
	}
	t, err := fetch(ctx, malID)
	if err == nil {
		themes.Add(malID, t)
	}

Lookups and evictions are exported as malwrapped_cache_lookups_total and
malwrapped_cache_evictions_total, labelled with the cache name.

# Thread Safety

All methods are safe for concurrent use. Get takes the write lock because a
hit moves the entry to the front of the recency list.
*/
package cache
