// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package api provides the HTTP API for MALWrapped.
//
// Routes (all JSON bodies use the models.APIResponse envelope):
//
//	GET  /api/v1/health                 service, store and MAL circuit status
//	GET  /api/v1/health/live            liveness probe
//	GET  /api/v1/auth/authorize         start the MAL OAuth2 PKCE flow
//	POST /api/v1/auth/token             exchange {code, state} for tokens
//	POST /api/v1/auth/refresh           exchange {refresh_token} for tokens
//	POST /api/v1/wrapped/{year}         generate a report (Bearer MAL token)
//	GET  /api/v1/wrapped/{year}/stream  websocket: progress events then the report
//	GET  /api/v1/wrapped/shared/{token} read a shared report
//	GET  /api/v1/people/{id}            MAL person with Jikan picture fallback
//	POST /api/v1/themes                 opening themes for {mal_ids}
//	GET  /metrics                       Prometheus metrics
//
// Handler methods are split across files:
//   - handlers.go: Handler, Dependencies, constructor
//   - handlers_helpers.go: response envelope, decoding, error mapping
//   - handlers_health.go, handlers_auth.go, handlers_wrapped.go,
//     handlers_stream.go, handlers_enrich.go: endpoints
//   - chi_router.go: routes and middleware
package api
