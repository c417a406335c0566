// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/malwrapped/internal/jikan"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/middleware"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/store"
	"github.com/tomtom215/malwrapped/internal/validation"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

// maxRequestBodySize bounds JSON request bodies.
const maxRequestBodySize = 64 * 1024

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with an ETag over the encoded body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: newMetadata(r, start),
	})
}

func newMetadata(r *http.Request, start time.Time) models.Metadata {
	md := models.Metadata{
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(r.Context()),
	}
	if !start.IsZero() {
		md.QueryTimeMS = time.Since(start).Milliseconds()
	}
	return md
}

// respondError writes an error envelope. err is logged, never sent.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		event := logging.Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondServiceError maps a domain error to its HTTP status and code.
func respondServiceError(w http.ResponseWriter, err error) {
	status, code, message := classifyError(err)
	respondError(w, status, code, message, err)
}

func classifyError(err error) (status int, code, message string) {
	var apiErr *mal.APIError
	var verr *validation.RequestValidationError

	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		return http.StatusBadRequest, apiErr.Code, apiErr.Message
	case errors.Is(err, wrapped.ErrNoToken):
		return http.StatusUnauthorized, "UNAUTHORIZED", "A MyAnimeList access token is required"
	case errors.Is(err, mal.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "MyAnimeList rejected the access token"
	case errors.Is(err, wrapped.ErrInvalidYear):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, mal.ErrUnknownState):
		return http.StatusBadRequest, "INVALID_STATE", "Unknown or expired OAuth state"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, jikan.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Not found or expired"
	case errors.Is(err, wrapped.ErrSharingDisabled):
		return http.StatusNotFound, "SHARING_DISABLED", "Report sharing is disabled on this server"
	case errors.Is(err, mal.ErrOAuthNotConfigured):
		return http.StatusServiceUnavailable, "OAUTH_NOT_CONFIGURED", "MyAnimeList OAuth is not configured"
	case errors.Is(err, mal.ErrCircuitOpen):
		return http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "MyAnimeList is unavailable, try again later"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "MyAnimeList did not respond in time"
	case errors.As(err, &apiErr):
		return classifyUpstream(apiErr)
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}

func classifyUpstream(e *mal.APIError) (int, string, string) {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "NOT_FOUND", "Not found on MyAnimeList"
	case e.StatusCode == http.StatusTooManyRequests:
		return http.StatusTooManyRequests, "RATE_LIMITED", "MyAnimeList rate limit reached, try again later"
	case e.Endpoint == "oauth_token" && e.StatusCode < http.StatusInternalServerError:
		return http.StatusBadRequest, "OAUTH_ERROR", "MyAnimeList rejected the authorization grant"
	default:
		return http.StatusBadGateway, "UPSTREAM_ERROR", "MyAnimeList returned an error"
	}
}

// decodeJSON reads a bounded JSON body into v and validates it. An empty
// body leaves v untouched when allowEmpty is set.
func decodeJSON(r *http.Request, v interface{}, allowEmpty bool) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize+1))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxRequestBodySize {
		return errBodyTooLarge
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		if allowEmpty {
			return nil
		}
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

var (
	errEmptyBody     = errors.New("request body is required")
	errBodyTooLarge  = errors.New("request body too large")
	errMalformedBody = errors.New("malformed JSON body")
)

// respondDecodeError answers a decodeJSON failure.
func respondDecodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errBodyTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, errEmptyBody), errors.Is(err, errMalformedBody):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	default:
		respondServiceError(w, err)
	}
}

// bearerToken returns the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// pathInt parses a positive integer path value.
func pathInt(value string) (int, bool) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
