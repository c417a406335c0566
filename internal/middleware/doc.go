// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package middleware provides the HTTP middleware shared by the API router:
// request ID propagation, Prometheus request metrics, structured request
// logging and security headers.
//
// Every middleware has the chi signature func(http.Handler) http.Handler and
// can be passed straight to chi.Router.Use. The ordering the router uses is:
//
//	RequestID -> RequestLogger -> PrometheusMetrics -> SecurityHeaders
//
// The response wrapper implements http.Hijacker and http.Flusher so the
// websocket progress stream can upgrade through the stack.
package middleware
