// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/malwrapped/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)

		r.Route("/auth", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAuth))
			r.Get("/authorize", router.handler.AuthAuthorize)
			r.Post("/token", router.handler.AuthToken)
			r.Post("/refresh", router.handler.AuthRefresh)
		})

		r.Route("/wrapped", func(r chi.Router) {
			r.With(router.chiMiddleware.RateLimit()).Get("/shared/{token}", router.handler.GetSharedWrapped)

			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCustom(RateLimitGenerate))
				r.Post("/{year}", router.handler.GenerateWrapped)
				r.Get("/{year}/stream", router.handler.StreamWrapped)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/people/{id}", router.handler.Person)
			r.Post("/themes", router.handler.Themes)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
