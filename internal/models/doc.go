// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

/*
Package models defines the wire structures shared across MALWrapped.

Two groups live here:

 1. MyAnimeList API v2 payloads: list pages (AnimeListResponse,
    MangaListResponse) and their items, the authenticated user, people and
    OAuth token responses. Optional MAL fields are pointers so that an
    absent value can be told apart from zero.
 2. The HTTP API envelope: APIResponse, Metadata, APIError and
    HealthStatus.

Normalization into the analysis model happens in package stats; nothing
here carries behavior beyond small accessors.
*/
package models
