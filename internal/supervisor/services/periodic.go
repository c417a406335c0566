// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/malwrapped/internal/logging"
)

// maxConsecutiveFailures is how many failed runs a PeriodicService tolerates
// before returning an error so the supervisor restarts it with backoff.
const maxConsecutiveFailures = 3

// PeriodicService runs a task on a fixed interval. The first run happens
// one interval after start.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context) error
}

// NewPeriodicService creates a PeriodicService. A non-positive interval
// means one minute.
func NewPeriodicService(name string, interval time.Duration, task func(ctx context.Context) error) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.task(ctx); err != nil {
				failures++
				logging.Warn().Err(err).Str("service", p.name).Int("consecutive_failures", failures).Msg("Periodic task failed")
				if failures >= maxConsecutiveFailures {
					return fmt.Errorf("%s: %d consecutive failures: %w", p.name, failures, err)
				}
				continue
			}
			failures = 0
		}
	}
}

// String names the service in supervisor events.
func (p *PeriodicService) String() string {
	return p.name
}

// GarbageCollector is a store with value log GC. *store.BadgerStore
// satisfies it.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// gcDiscardRatio is badger's recommended discard ratio.
const gcDiscardRatio = 0.5

// NewStoreGCService runs store value log GC every interval.
func NewStoreGCService(store GarbageCollector, interval time.Duration) *PeriodicService {
	return NewPeriodicService("store-gc", interval, func(context.Context) error {
		return store.RunGC(gcDiscardRatio)
	})
}

// StatePurger drops expired OAuth states. *mal.OAuth satisfies it.
type StatePurger interface {
	PurgeExpired() int
}

// NewOAuthJanitorService purges expired OAuth states every interval.
func NewOAuthJanitorService(purger StatePurger, interval time.Duration) *PeriodicService {
	return NewPeriodicService("oauth-janitor", interval, func(context.Context) error {
		if n := purger.PurgeExpired(); n > 0 {
			logging.Debug().Int("purged", n).Msg("Expired OAuth states purged")
		}
		return nil
	})
}
