// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

// Package store persists generated reports under opaque share tokens.
//
// Two backends implement ReportStore: BadgerStore, an embedded key-value
// store and the default, and RedisStore for deployments that already run
// Redis. Both expire reports after a configured TTL. Payloads are opaque
// bytes; the wrapped package owns the report encoding.
package store

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// tokenBytes is the share token entropy. Encoded it is 43 characters.
const tokenBytes = 32

// ErrNotFound is returned for unknown or expired tokens.
var ErrNotFound = errors.New("store: report not found")

// ReportStore saves report payloads and hands back share tokens.
type ReportStore interface {
	// Save stores payload under a fresh token.
	Save(ctx context.Context, payload []byte) (string, error)
	// Get returns the payload for token or ErrNotFound.
	Get(ctx context.Context, token string) ([]byte, error)
	// Delete removes token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error
	// Backend names the implementation for logs, metrics and health.
	Backend() string
	Close() error
}

// NewShareToken returns a random base64url token.
func NewShareToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidToken reports whether token has the shape NewShareToken produces.
// Lookups of malformed tokens can be rejected without touching the backend.
func ValidToken(token string) bool {
	if len(token) != base64.RawURLEncoding.EncodedLen(tokenBytes) {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(token)
	return err == nil
}
