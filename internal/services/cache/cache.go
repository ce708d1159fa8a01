// Package cache defines the layer contract shared by the result caches.
package cache

import (
	"context"
	"time"
)

// Layer stores opaque values by key. Get reports a miss as apperrors.ErrNotFound.
type Layer interface {
	Name() string
	Store(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	GetStats() LayerStats
}

type LayerStats struct {
	Name         string  `json:"name"`
	Objects      int     `json:"objects"`
	SizeBytes    int64   `json:"sizeBytes"`
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	HitRate      float64 `json:"hitRate"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}

// HitRate returns hits as a percentage of all lookups.
func HitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// AvgMs averages an accumulated duration over n operations.
func AvgMs(total time.Duration, n int64) float64 {
	if n == 0 {
		return 0
	}
	return float64(total.Microseconds()) / 1000.0 / float64(n)
}
