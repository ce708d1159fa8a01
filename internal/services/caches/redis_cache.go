package caches

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/services/cache"
	"room-service/internal/storage"
)

// RedisCache keeps entries under a key prefix with a per-entry expiry, so it
// can be shared by several service replicas.
type RedisCache struct {
	client *storage.RedisClient
	prefix string
	ttl    time.Duration
	logger *zap.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	lookups   atomic.Int64
	lookupDur atomic.Int64
}

func NewRedisCache(client *storage.RedisClient, prefix string, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.Named("redis-cache"),
	}
}

func (rc *RedisCache) Name() string {
	return "REDIS"
}

func (rc *RedisCache) key(k string) string {
	return rc.prefix + k
}

func (rc *RedisCache) Store(ctx context.Context, key string, data []byte) error {
	if err := rc.client.SetBytes(ctx, rc.key(key), data, rc.ttl); err != nil {
		return errors.Wrap(err, "failed to store in Redis")
	}
	rc.logger.Debug("Stored entry", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	data, err := rc.client.GetBytes(ctx, rc.key(key))
	rc.lookups.Add(1)
	rc.lookupDur.Add(int64(time.Since(start)))

	if err != nil {
		rc.misses.Add(1)
		return nil, errors.Wrap(err, "redis error")
	}
	if data == nil {
		rc.misses.Add(1)
		return nil, apperrors.ErrNotFound
	}

	rc.hits.Add(1)
	return data, nil
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.client.Delete(ctx, rc.key(key))
}

func (rc *RedisCache) GetStats() cache.LayerStats {
	hits, misses := rc.hits.Load(), rc.misses.Load()
	return cache.LayerStats{
		Name:         "Redis",
		Hits:         hits,
		Misses:       misses,
		HitRate:      cache.HitRate(hits, misses),
		AvgLatencyMs: cache.AvgMs(time.Duration(rc.lookupDur.Load()), rc.lookups.Load()),
	}
}
