// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/malwrapped/internal/models"
)

// Health reports overall status. The service is "degraded" while the MAL
// circuit is open; it still serves shared reports then.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	circuit := "unknown"
	if h.mal != nil {
		circuit = h.mal.BreakerState()
	}

	status := "healthy"
	if circuit == "open" {
		status = "degraded"
	}

	respondSuccess(w, r, models.HealthStatus{
		Status:       status,
		Version:      h.version,
		StoreBackend: h.storeBackend,
		MALCircuit:   circuit,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
	}, time.Time{})
}

// HealthLive is the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]string{"status": "alive"}, time.Time{})
}
