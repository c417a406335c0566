// MALWrapped - MyAnimeList Year in Review
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/malwrapped

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

const badgerReportKeyPrefix = "report:"

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	Path      string
	InMemory  bool
	ReportTTL time.Duration
}

// BadgerStore keeps reports in an embedded BadgerDB with per-key TTL.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

var _ ReportStore = (*BadgerStore)(nil)

// OpenBadger opens (or creates) the database at cfg.Path, or an in-memory
// database when cfg.InMemory is set.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = true
	}
	opts.Logger = nil
	// Reports are a few KiB each.
	opts.ValueLogFileSize = 64 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger report store: %w", err)
	}
	return &BadgerStore{db: db, ttl: cfg.ReportTTL}, nil
}

// Backend implements ReportStore.
func (s *BadgerStore) Backend() string { return "badger" }

// Save implements ReportStore.
func (s *BadgerStore) Save(ctx context.Context, payload []byte) (string, error) {
	token, err := NewShareToken()
	if err != nil {
		return "", err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerReportKeyPrefix+token), payload)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	metrics.RecordStoreOperation(s.Backend(), "save", err)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return token, nil
}

// Get implements ReportStore.
func (s *BadgerStore) Get(ctx context.Context, token string) ([]byte, error) {
	var payload []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerReportKeyPrefix + token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation(s.Backend(), "get", nil)
		return nil, ErrNotFound
	}
	metrics.RecordStoreOperation(s.Backend(), "get", err)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return payload, nil
}

// Delete implements ReportStore.
func (s *BadgerStore) Delete(ctx context.Context, token string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerReportKeyPrefix + token))
	})
	metrics.RecordStoreOperation(s.Backend(), "delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// RunGC reclaims value log space until badger reports nothing to rewrite.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	rewrites := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		if errors.Is(err, badger.ErrRejected) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to run value log GC: %w", err)
		}
		rewrites++
	}
	if rewrites > 0 {
		logging.Debug().Int("rewrites", rewrites).Msg("Report store value log GC")
	}
	return nil
}

// Close implements ReportStore.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
