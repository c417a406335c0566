// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package mal is a client for the MyAnimeList API v2.
//
// The Client covers the read-only endpoints MALWrapped needs: the
// authenticated user's anime and manga lists (one page per call, shaped for
// the collector package), the user profile, and person lookups. Every call
// takes the user's bearer token, goes through a circuit breaker, and retries
// HTTP 429 responses with exponential backoff honoring Retry-After.
//
// OAuth implements MAL's OAuth2 authorization code flow with PKCE. MAL only
// supports the "plain" challenge method, so the challenge sent to the
// authorize endpoint is the verifier itself.
//
// Errors:
//   - ErrUnauthorized: MAL rejected the token (HTTP 401)
//   - ErrCircuitOpen: the breaker is open and the call was not attempted
//   - *APIError: any other non-2xx response, with a bounded copy of the body
package mal
