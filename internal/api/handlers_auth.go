// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/mal"
)

// AuthorizeResponse starts the OAuth flow.
type AuthorizeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	State            string `json:"state"`
}

// TokenRequest completes the OAuth flow.
type TokenRequest struct {
	Code  string `json:"code" validate:"required,max=2048"`
	State string `json:"state" validate:"required,uuid"`
}

// RefreshRequest renews a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=4096"`
}

// AuthAuthorize issues a state and returns the MAL authorization URL.
func (h *Handler) AuthAuthorize(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondServiceError(w, mal.ErrOAuthNotConfigured)
		return
	}
	authURL, state, err := h.oauth.Begin()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, r, AuthorizeResponse{AuthorizationURL: authURL, State: state}, time.Time{})
}

// AuthToken exchanges an authorization code for tokens.
func (h *Handler) AuthToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.oauth == nil {
		respondServiceError(w, mal.ErrOAuthNotConfigured)
		return
	}

	var req TokenRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, err)
		return
	}

	token, err := h.oauth.Complete(r.Context(), req.State, req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int("expires_in", token.ExpiresIn).Msg("OAuth code exchanged")
	respondSuccess(w, r, token, start)
}

// AuthRefresh exchanges a refresh token for a new pair.
func (h *Handler) AuthRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.oauth == nil {
		respondServiceError(w, mal.ErrOAuthNotConfigured)
		return
	}

	var req RefreshRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, err)
		return
	}

	token, err := h.oauth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, r, token, start)
}
