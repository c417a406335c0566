// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/malwrapped/internal/config"
	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/store"
)

// redisConnectTimeout bounds the startup PING.
const redisConnectTimeout = 5 * time.Second

// openReportStore opens the configured backend. It returns a nil store for
// the "none" backend, which disables report sharing.
func openReportStore(ctx context.Context, cfg *config.Config) (store.ReportStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendBadger:
		s, err := store.OpenBadger(store.BadgerConfig{
			Path:      cfg.Store.Path,
			InMemory:  cfg.Store.InMemory,
			ReportTTL: cfg.Store.ReportTTL,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("path", cfg.Store.Path).Bool("in_memory", cfg.Store.InMemory).Msg("Badger report store opened")
		return s, nil

	case config.StoreBackendRedis:
		connectCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
		defer cancel()
		s, err := store.OpenRedis(connectCtx, store.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			ReportTTL: cfg.Store.ReportTTL,
		})
		if err != nil {
			return nil, err
		}
		logging.Info().Str("addr", cfg.Redis.Addr).Msg("Redis report store connected")
		return s, nil

	case config.StoreBackendNone, "":
		logging.Info().Msg("Report store disabled, sharing is off")
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
