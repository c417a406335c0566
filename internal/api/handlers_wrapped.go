// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

// GenerateOptions are the optional per-request overrides.
type GenerateOptions struct {
	TopN                     int   `json:"top_n,omitempty" validate:"omitempty,min=1,max=50"`
	IncludeUnknownPopularity *bool `json:"include_unknown_popularity,omitempty"`
}

// GenerateWrapped builds a report for {year} from the bearer token owner's
// lists. A report built from a partially collected list is still returned,
// flagged by metadata.partial.
func (h *Handler) GenerateWrapped(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "year must be a number", nil)
		return
	}

	var opts GenerateOptions
	if err := decodeJSON(r, &opts, true); err != nil {
		respondDecodeError(w, err)
		return
	}

	report, err := h.reports.Generate(r.Context(), wrapped.GenerateRequest{
		Token:                    bearerToken(r),
		Year:                     year,
		TopN:                     opts.TopN,
		IncludeUnknownPopularity: opts.IncludeUnknownPopularity,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	md := newMetadata(r, start)
	md.Partial = !report.Complete()
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     report,
		Metadata: md,
	})
}

// GetSharedWrapped reads a previously shared report.
func (h *Handler) GetSharedWrapped(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.reports.Get(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	md := newMetadata(r, start)
	md.Partial = !report.Complete()
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     report,
		Metadata: md,
	})
}
