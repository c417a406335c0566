// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package models

import "time"

// APIResponse is the envelope for every JSON endpoint.
//
// Status is "success" or "error". Data carries the payload on success and
// Error carries the structured failure otherwise.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
//
// QueryTimeMS is the time spent talking to upstream APIs and computing stats.
// Partial is set when a list could not be collected completely.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Partial     bool      `json:"partial,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: request failed validation
//   - UNAUTHORIZED: missing or rejected MAL access token
//   - UPSTREAM_ERROR: MyAnimeList or a third-party API failed
//   - NOT_FOUND: shared report does not exist or expired
//   - INTERNAL_ERROR: unexpected server failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the /api/v1/health payload.
type HealthStatus struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	StoreBackend string `json:"store_backend"`
	MALCircuit   string `json:"mal_circuit"`
	Uptime       string `json:"uptime"`
}
