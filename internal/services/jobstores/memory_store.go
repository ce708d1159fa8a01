package jobstores

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/models"
	"room-service/internal/services/jobstore"
)

// MemoryStore keeps jobs in process. The map lock is only held for lookups
// and membership changes; each record has its own lock for mutation.
type MemoryStore struct {
	mu       sync.RWMutex
	jobs     map[string]*memoryEntry
	capacity int
	logger   *zap.Logger

	evicted atomic.Int64
}

type memoryEntry struct {
	mu      sync.Mutex
	job     *models.GenerationJob
	removed bool
}

func NewMemoryStore(capacity int, logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		jobs:     make(map[string]*memoryEntry),
		capacity: capacity,
		logger:   logger.Named("memory-jobs"),
	}
}

func (ms *MemoryStore) Name() string {
	return "MEMORY"
}

// Create stores a new job. When the store is at capacity the oldest finished
// job is dropped to make room; unfinished jobs are never dropped.
func (ms *MemoryStore) Create(_ context.Context, job *models.GenerationJob) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.jobs[job.JobID]; exists {
		return errors.Errorf("job %s already exists", job.JobID)
	}
	if ms.capacity > 0 && len(ms.jobs) >= ms.capacity && !ms.evictOldestLocked() {
		return apperrors.ErrJobStoreFull
	}

	ms.jobs[job.JobID] = &memoryEntry{job: job.Clone()}
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, id string) (*models.GenerationJob, error) {
	e := ms.lookup(id)
	if e == nil {
		return nil, apperrors.ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, apperrors.ErrJobNotFound
	}
	return e.job.Clone(), nil
}

func (ms *MemoryStore) Update(_ context.Context, id string, fn func(*models.GenerationJob) error) (*models.GenerationJob, error) {
	e := ms.lookup(id)
	if e == nil {
		return nil, apperrors.ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return nil, apperrors.ErrJobNotFound
	}

	next := e.job.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	e.job = next
	return next.Clone(), nil
}

func (ms *MemoryStore) Evict(_ context.Context, olderThan time.Time) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	n := 0
	for id, e := range ms.jobs {
		e.mu.Lock()
		if expired(e.job, olderThan) {
			e.removed = true
			delete(ms.jobs, id)
			n++
		}
		e.mu.Unlock()
	}

	if n > 0 {
		ms.evicted.Add(int64(n))
		ms.logger.Info("Evicted finished jobs", zap.Int("count", n))
	}
	return n, nil
}

func (ms *MemoryStore) Stats(_ context.Context) jobstore.Stats {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	stats := jobstore.Stats{Name: "Memory", Capacity: ms.capacity, Evicted: ms.evicted.Load()}
	for _, e := range ms.jobs {
		e.mu.Lock()
		stats.Count(e.job.Status)
		e.mu.Unlock()
	}
	return stats
}

func (ms *MemoryStore) lookup(id string) *memoryEntry {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.jobs[id]
}

// evictOldestLocked drops the terminal job that finished first. Caller holds ms.mu.
func (ms *MemoryStore) evictOldestLocked() bool {
	var oldestID string
	var oldest time.Time

	for id, e := range ms.jobs {
		e.mu.Lock()
		if e.job.Status.IsTerminal() && e.job.CompletedAt != nil &&
			(oldestID == "" || e.job.CompletedAt.Before(oldest)) {
			oldestID = id
			oldest = *e.job.CompletedAt
		}
		e.mu.Unlock()
	}
	if oldestID == "" {
		return false
	}

	e := ms.jobs[oldestID]
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	delete(ms.jobs, oldestID)

	ms.evicted.Add(1)
	ms.logger.Debug("Evicted job to make room", zap.String("job_id", oldestID))
	return true
}

func expired(job *models.GenerationJob, olderThan time.Time) bool {
	return job.Status.IsTerminal() && job.CompletedAt != nil && job.CompletedAt.Before(olderThan)
}
