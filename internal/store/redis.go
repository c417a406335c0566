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

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/malwrapped/internal/logging"
	"github.com/tomtom215/malwrapped/internal/metrics"
)

const redisReportKeyPrefix = "malwrapped:report:"

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	ReportTTL time.Duration
}

// RedisStore keeps reports in Redis with key expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ReportStore = (*RedisStore)(nil)

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	logging.Info().Str("addr", cfg.Addr).Msg("Redis report store initialized")
	return &RedisStore{client: client, ttl: cfg.ReportTTL}, nil
}

func redisReportKey(token string) string {
	return redisReportKeyPrefix + token
}

// Backend implements ReportStore.
func (s *RedisStore) Backend() string { return "redis" }

// Save implements ReportStore.
func (s *RedisStore) Save(ctx context.Context, payload []byte) (string, error) {
	token, err := NewShareToken()
	if err != nil {
		return "", err
	}
	err = s.client.Set(ctx, redisReportKey(token), payload, s.ttl).Err()
	metrics.RecordStoreOperation(s.Backend(), "save", err)
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return token, nil
}

// Get implements ReportStore.
func (s *RedisStore) Get(ctx context.Context, token string) ([]byte, error) {
	payload, err := s.client.Get(ctx, redisReportKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
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
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	err := s.client.Del(ctx, redisReportKey(token)).Err()
	metrics.RecordStoreOperation(s.Backend(), "delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// Close implements ReportStore.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
