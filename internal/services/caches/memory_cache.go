package caches

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/services/cache"
)

// MemoryCache is a size-bounded LRU with a fixed entry lifetime. Expired
// entries are dropped when they are next read or when space is needed.
type MemoryCache struct {
	mu          sync.Mutex
	entries     map[string]*memoryCacheEntry
	maxSize     int64
	currentSize int64
	ttl         time.Duration
	now         func() time.Time
	logger      *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type memoryCacheEntry struct {
	data        []byte
	createdAt   time.Time
	lastAccess  time.Time
	accessCount int64
}

func NewMemoryCache(maxSizeBytes int64, ttl time.Duration, logger *zap.Logger) *MemoryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCache{
		entries: make(map[string]*memoryCacheEntry),
		maxSize: maxSizeBytes,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.Named("memory-cache"),
	}
}

func (mc *MemoryCache) Name() string {
	return "MEMORY"
}

func (mc *MemoryCache) Store(_ context.Context, key string, data []byte) error {
	size := int64(len(data))
	if size > mc.maxSize {
		return errors.Errorf("value of %d bytes exceeds cache size %d", size, mc.maxSize)
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.deleteLocked(key)
	for mc.currentSize+size > mc.maxSize {
		if !mc.evictLRULocked() {
			return errors.Errorf("unable to free space for value of size %d", size)
		}
	}

	now := mc.now()
	mc.entries[key] = &memoryCacheEntry{data: data, createdAt: now, lastAccess: now}
	mc.currentSize += size
	mc.logger.Debug("Stored entry", zap.String("key", key), zap.Int64("bytes", size))
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if ok && mc.expired(entry) {
		mc.deleteLocked(key)
		ok = false
	}
	if !ok {
		mc.misses.Add(1)
		return nil, apperrors.ErrNotFound
	}

	entry.lastAccess = mc.now()
	entry.accessCount++
	mc.hits.Add(1)
	return entry.data, nil
}

func (mc *MemoryCache) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.deleteLocked(key)
	return nil
}

func (mc *MemoryCache) GetStats() cache.LayerStats {
	mc.mu.Lock()
	objects, size := len(mc.entries), mc.currentSize
	mc.mu.Unlock()

	hits, misses := mc.hits.Load(), mc.misses.Load()
	return cache.LayerStats{
		Name:      "Memory",
		Objects:   objects,
		SizeBytes: size,
		Hits:      hits,
		Misses:    misses,
		HitRate:   cache.HitRate(hits, misses),
	}
}

func (mc *MemoryCache) expired(e *memoryCacheEntry) bool {
	return mc.ttl > 0 && mc.now().Sub(e.createdAt) > mc.ttl
}

func (mc *MemoryCache) deleteLocked(key string) {
	if entry, ok := mc.entries[key]; ok {
		mc.currentSize -= int64(len(entry.data))
		delete(mc.entries, key)
	}
}

// evictLRULocked drops an expired entry if there is one, otherwise the least
// recently used. Caller holds mc.mu.
func (mc *MemoryCache) evictLRULocked() bool {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range mc.entries {
		if mc.expired(entry) {
			oldestKey = key
			break
		}
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}
	if oldestKey == "" {
		return false
	}

	mc.deleteLocked(oldestKey)
	mc.logger.Debug("Evicted entry", zap.String("key", oldestKey))
	return true
}
