package detection

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/services/cache"
)

// CacheObserver is told about every cache lookup.
type CacheObserver interface {
	RecordCacheLookup(layer string, hit bool)
}

// CachedDetector answers repeated uploads of the same image from a cache
// layer instead of calling the inference service again.
type CachedDetector struct {
	inner    Detector
	layer    cache.Layer
	observer CacheObserver
	logger   *zap.Logger
}

func NewCachedDetector(inner Detector, layer cache.Layer, observer CacheObserver, logger *zap.Logger) *CachedDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDetector{inner: inner, layer: layer, observer: observer, logger: logger.Named("detection-cache")}
}

// CacheKey identifies an image by content.
func CacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "detect:" + hex.EncodeToString(sum[:])
}

func (d *CachedDetector) Detect(ctx context.Context, filename string, data []byte) (*Response, error) {
	key := CacheKey(data)

	cached, err := d.layer.Get(ctx, key)
	switch {
	case err == nil:
		var resp Response
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			d.record(true)
			d.logger.Debug("Detection served from cache", zap.String("file", filename), zap.String("layer", d.layer.Name()))
			return &resp, nil
		}
		// Unreadable entries are replaced below.
		_ = d.layer.Delete(ctx, key)
	case !errors.Is(err, apperrors.ErrNotFound):
		d.logger.Warn("Detection cache lookup failed", zap.Error(err))
	}
	d.record(false)

	resp, err := d.inner.Detect(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(resp); err == nil {
		if err := d.layer.Store(ctx, key, encoded); err != nil {
			d.logger.Warn("Failed to cache detection", zap.Error(err))
		}
	}
	return resp, nil
}

func (d *CachedDetector) CheckHealth(ctx context.Context) error {
	return d.inner.CheckHealth(ctx)
}

// Stats reports the backing layer's counters.
func (d *CachedDetector) Stats() cache.LayerStats {
	return d.layer.GetStats()
}

func (d *CachedDetector) record(hit bool) {
	if d.observer != nil {
		d.observer.RecordCacheLookup(d.layer.Name(), hit)
	}
}
