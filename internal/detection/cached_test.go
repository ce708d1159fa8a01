package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/models"
	"room-service/internal/services/caches"
)

type countingDetector struct {
	calls int
	err   error
}

func (d *countingDetector) Detect(context.Context, string, []byte) (*Response, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &Response{
		Detections: []models.Detection{{ClassName: "bed", Confidence: 0.9, Box: models.BoundingBox{X2: 10, Y2: 10}}},
		Width:      100,
		Height:     80,
	}, nil
}

func (d *countingDetector) CheckHealth(context.Context) error { return d.err }

type lookupRecorder struct{ hits, misses int }

func (r *lookupRecorder) RecordCacheLookup(_ string, hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func TestCachedDetector(t *testing.T) {
	inner := &countingDetector{}
	rec := &lookupRecorder{}
	d := NewCachedDetector(inner, caches.NewMemoryCache(1<<20, time.Hour, nil), rec, nil)
	ctx := context.Background()

	first, err := d.Detect(ctx, "a.jpg", []byte("image-1"))
	require.NoError(t, err)
	second, err := d.Detect(ctx, "renamed.jpg", []byte("image-1"))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "same bytes are detected once")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)

	_, err = d.Detect(ctx, "b.jpg", []byte("image-2"))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, int64(1), d.Stats().Hits)
}

func TestCachedDetector_ErrorsAreNotCached(t *testing.T) {
	inner := &countingDetector{err: errors.New("inference down")}
	d := NewCachedDetector(inner, caches.NewMemoryCache(1<<20, time.Hour, nil), nil, nil)

	_, err := d.Detect(context.Background(), "a.jpg", []byte("x"))
	assert.Error(t, err)
	inner.err = nil
	_, err = d.Detect(context.Background(), "a.jpg", []byte("x"))
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey([]byte("a")), CacheKey([]byte("a")))
	assert.NotEqual(t, CacheKey([]byte("a")), CacheKey([]byte("b")))
	assert.Len(t, CacheKey(nil), len("detect:")+64)
}
