package jobstore

import (
	"context"
	"time"

	"room-service/internal/models"
)

// JobStore is the registry of generation jobs. Implementations must let
// writers to different jobs proceed without blocking each other, and must
// never hand out a record that a caller can mutate in place.
type JobStore interface {
	Name() string
	Create(ctx context.Context, job *models.GenerationJob) error
	Get(ctx context.Context, id string) (*models.GenerationJob, error)
	// Update applies fn to a copy of the job and commits it only if fn
	// returns nil. The committed snapshot is returned.
	Update(ctx context.Context, id string, fn func(*models.GenerationJob) error) (*models.GenerationJob, error)
	// Evict removes terminal jobs completed before olderThan.
	Evict(ctx context.Context, olderThan time.Time) (int, error)
	Stats(ctx context.Context) Stats
}

type Stats struct {
	Name       string `json:"name"`
	Jobs       int    `json:"jobs"`
	Pending    int    `json:"pending"`
	Processing int    `json:"processing"`
	Completed  int    `json:"completed"`
	Failed     int    `json:"failed"`
	Capacity   int    `json:"capacity"`
	Evicted    int64  `json:"evicted"`
}

// Count adds one job in the given status.
func (s *Stats) Count(status models.JobStatus) {
	s.Jobs++
	switch status {
	case models.JobPending:
		s.Pending++
	case models.JobProcessing:
		s.Processing++
	case models.JobCompleted:
		s.Completed++
	case models.JobFailed:
		s.Failed++
	}
}
