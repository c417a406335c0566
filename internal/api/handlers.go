// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/malwrapped/internal/config"
	"github.com/tomtom215/malwrapped/internal/jikan"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/models"
	"github.com/tomtom215/malwrapped/internal/themes"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

// PersonSource looks up MAL people and reports the upstream circuit state.
// *mal.Client satisfies it.
type PersonSource interface {
	Person(ctx context.Context, token string, id int) (*models.Person, error)
	BreakerState() string
}

// ThemeSource resolves opening themes. *themes.Client satisfies it.
type ThemeSource interface {
	OpeningThemes(ctx context.Context, malIDs []int) []themes.Theme
}

// PictureSource resolves person pictures. *jikan.Client satisfies it.
type PictureSource interface {
	PersonPicture(ctx context.Context, id int) (*jikan.PersonPicture, error)
}

// Dependencies are the collaborators of Handler. Themes and Pictures are
// nil when the integration is disabled.
type Dependencies struct {
	Config       *config.Config
	Reports      *wrapped.Service
	MAL          PersonSource
	OAuth        *mal.OAuth
	Themes       ThemeSource
	Pictures     PictureSource
	StoreBackend string
	Version      string
}

// Handler serves the API endpoints.
type Handler struct {
	cfg          *config.Config
	reports      *wrapped.Service
	mal          PersonSource
	oauth        *mal.OAuth
	themes       ThemeSource
	pictures     PictureSource
	storeBackend string
	version      string
	startTime    time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	backend := deps.StoreBackend
	if backend == "" {
		backend = config.StoreBackendNone
	}
	return &Handler{
		cfg:          deps.Config,
		reports:      deps.Reports,
		mal:          deps.MAL,
		oauth:        deps.OAuth,
		themes:       deps.Themes,
		pictures:     deps.Pictures,
		storeBackend: backend,
		version:      version,
		startTime:    time.Now(),
	}
}

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin applies the CORS origin list to websocket upgrades.
// Browsers always send Origin, so a missing one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	if h.cfg == nil {
		return true
	}
	for _, allowed := range h.cfg.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

func (h *Handler) maxThemeIDs() int {
	if h.cfg == nil || h.cfg.Themes.MaxIDs <= 0 {
		return 10
	}
	return h.cfg.Themes.MaxIDs
}
