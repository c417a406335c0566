// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/themes"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

// Picture sources reported by Person.
const (
	PictureSourceMAL   = "mal"
	PictureSourceJikan = "jikan"
)

// PersonResponse is a person as shown on a report card.
type PersonResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture,omitempty"`
	PictureSource string `json:"picture_source,omitempty"`
}

// ThemesRequest asks for the openings of several anime.
type ThemesRequest struct {
	MALIDs []int `json:"mal_ids" validate:"required,min=1,dive,gt=0"`
}

// Person returns a MAL person. MAL often has no picture for authors, so
// Jikan fills it in when enabled.
func (h *Handler) Person(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := pathInt(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer", nil)
		return
	}
	token := bearerToken(r)
	if token == "" {
		respondServiceError(w, wrapped.ErrNoToken)
		return
	}

	person, err := h.mal.Person(r.Context(), token, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := PersonResponse{
		ID:      person.ID,
		Name:    strings.TrimSpace(person.FirstName + " " + person.LastName),
		Picture: person.MainPicture.URL(),
	}
	if resp.Picture != "" {
		resp.PictureSource = PictureSourceMAL
	} else if h.pictures != nil {
		pic, err := h.pictures.PersonPicture(r.Context(), id)
		switch {
		case err != nil:
			logging.Ctx(r.Context()).Debug().Err(err).Int("person_id", id).Msg("Jikan picture lookup failed")
		case pic.Picture != "":
			resp.Picture = pic.Picture
			resp.PictureSource = PictureSourceJikan
			if resp.Name == "" {
				resp.Name = pic.Name
			}
		}
	}

	respondSuccess(w, r, resp, start)
}

// Themes resolves opening themes for up to Themes.MaxIDs anime. Anime with
// no playable opening are left out of the result.
func (h *Handler) Themes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.themes == nil {
		respondError(w, http.StatusNotFound, "FEATURE_DISABLED", "Theme lookup is disabled on this server", nil)
		return
	}

	var req ThemesRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondDecodeError(w, err)
		return
	}
	if limit := h.maxThemeIDs(); len(req.MALIDs) > limit {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("mal_ids must be at most %d items", limit), nil)
		return
	}

	found := h.themes.OpeningThemes(r.Context(), dedupeIDs(req.MALIDs))
	if found == nil {
		found = []themes.Theme{}
	}
	respondSuccess(w, r, found, start)
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
