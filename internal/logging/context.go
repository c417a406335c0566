// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userKey      contextKey = "mal_user"
)

// GenerateRequestID returns a new UUIDv4 request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns ctx carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithUser returns ctx carrying the MAL username being processed.
func ContextWithUser(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userKey, name)
}

// UserFromContext returns the MAL username or "".
func UserFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(userKey).(string); ok {
		return name
	}
	return ""
}

// Ctx returns the global logger enriched with request_id and mal_user when
// present in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Report generated")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if name := UserFromContext(ctx); name != "" {
		lc = lc.Str("mal_user", name)
	}
	l := lc.Logger()
	return &l
}
