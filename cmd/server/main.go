// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/malwrapped/internal/api"
	"github.com/tomtom215/malwrapped/internal/config"
	"github.com/tomtom215/malwrapped/internal/jikan"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/mal"
	"github.com/tomtom215/malwrapped/internal/stats"
	"github.com/tomtom215/malwrapped/internal/supervisor"
	"github.com/tomtom215/malwrapped/internal/supervisor/services"
	"github.com/tomtom215/malwrapped/internal/themes"
	"github.com/tomtom215/malwrapped/internal/wrapped"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// oauthJanitorInterval is how often expired OAuth states are dropped.
const oauthJanitorInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store_backend", cfg.Store.Backend).
		Bool("oauth", cfg.OAuth.ClientID != "").
		Bool("themes", cfg.Themes.Enabled).
		Bool("jikan", cfg.Jikan.Enabled).
		Msg("Starting MALWrapped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, err := openReportStore(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open report store")
	}
	defer func() {
		if reports == nil {
			return
		}
		if err := reports.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing report store")
		}
	}()

	malClient := mal.NewClient(mal.Config{
		BaseURL:         cfg.MAL.BaseURL,
		Timeout:         cfg.MAL.Timeout,
		MaxRetries:      cfg.MAL.MaxRetries,
		RetryBaseDelay:  cfg.MAL.RetryBaseDelay,
		BreakerFailures: cfg.MAL.BreakerFailures,
		BreakerTimeout:  cfg.MAL.BreakerTimeout,
	})

	oauth := mal.NewOAuth(mal.OAuthConfig{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
		AuthorizeURL: cfg.OAuth.AuthorizeURL,
		TokenURL:     cfg.OAuth.TokenURL,
		StateTTL:     cfg.OAuth.StateTTL,
	})
	if !oauth.Configured() {
		logging.Warn().Msg("MAL_CLIENT_ID not set, OAuth endpoints will return 503")
	}

	deps := api.Dependencies{
		Config:       cfg,
		MAL:          malClient,
		OAuth:        oauth,
		StoreBackend: cfg.Store.Backend,
		Version:      version,
	}
	if cfg.Themes.Enabled {
		deps.Themes = themes.NewClient(themes.Config{
			BaseURL:           cfg.Themes.BaseURL,
			RequestsPerSecond: cfg.Themes.RequestsPerSecond,
			CacheSize:         cfg.Themes.CacheSize,
			CacheTTL:          cfg.Themes.CacheTTL,
		})
	}
	if cfg.Jikan.Enabled {
		deps.Pictures = jikan.NewClient(jikan.Config{
			BaseURL:           cfg.Jikan.BaseURL,
			RequestsPerSecond: cfg.Jikan.RequestsPerSecond,
			CacheSize:         cfg.Jikan.CacheSize,
			CacheTTL:          cfg.Jikan.CacheTTL,
		})
	}

	serviceCfg := wrapped.Config{
		Stats:          statsOptions(cfg.Stats),
		EpisodeMinutes: cfg.Stats.EpisodeMinutes,
		ChapterMinutes: cfg.Stats.ChapterMinutes,
		PageSize:       cfg.MAL.PageSize,
		MaxPages:       cfg.MAL.MaxPages,
	}
	deps.Reports = wrapped.NewService(malClient, reports, serviceCfg)

	handler := api.NewHandler(deps)
	chiMiddleware := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSMaxAge:         300,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
	})
	router := api.NewRouter(handler, chiMiddleware)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Report generation walks every list page, so writes get extra room.
		WriteTimeout: 2 * cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if gc, ok := reports.(services.GarbageCollector); ok {
		tree.AddMaintenanceService(services.NewStoreGCService(gc, cfg.Store.GCInterval))
		logging.Info().Dur("interval", cfg.Store.GCInterval).Msg("Store GC service added")
	}
	if oauth.Configured() {
		tree.AddMaintenanceService(services.NewOAuthJanitorService(oauth, oauthJanitorInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("MALWrapped stopped")
}

// statsOptions maps configuration onto stats.Options. TargetYear is set
// per request.
func statsOptions(c config.StatsConfig) stats.Options {
	return stats.Options{
		TopN:                     c.TopN,
		GemPopularityThreshold:   c.GemPopularityThreshold,
		GemScoreThreshold:        c.GemScoreThreshold,
		AgreementTolerance:       c.AgreementTolerance,
		IncludeUnknownPopularity: c.GemIncludeUnknownPopularity,
	}
}
