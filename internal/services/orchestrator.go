package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/generation"
	"room-service/internal/models"
	"room-service/internal/repository"
	"room-service/internal/services/jobstore"
	"room-service/internal/utils"
)

const (
	DefaultWorkers           = 2
	DefaultEstimatedDuration = 45 * time.Second
	DefaultJobTTL            = time.Hour
	DefaultRetryDelay        = 200 * time.Millisecond

	outcomeAttempts = 3

	queuedMessage     = "Image generation queued..."
	processingMessage = "Generating AI visualization..."
	failedMessage     = "Real AI image generation failed"
)

type OrchestratorOptions struct {
	Workers           int
	EstimatedDuration time.Duration
	// TTL is how long finished jobs stay in the live store.
	TTL     time.Duration
	Archive repository.JobArchive
	Metrics *utils.Metrics
	Clock   func() time.Time
	// RetryDelay separates attempts to record a job's final state.
	RetryDelay time.Duration
}

// JobOrchestrator runs visualization jobs on a bounded pool of workers.
// Submitters never wait: a job beyond the pool size stays pending until a
// worker slot frees up. There is no cancellation; a running job finishes or
// fails on its own.
type JobOrchestrator struct {
	store      jobstore.JobStore
	visualizer generation.Visualizer
	opts       OrchestratorOptions
	logger     *zap.Logger

	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	// Final states the store refused. Served to pollers and written back
	// on the next eviction sweep.
	heldMu sync.Mutex
	held   map[string]*models.GenerationJob
}

func NewJobOrchestrator(store jobstore.JobStore, visualizer generation.Visualizer, opts OrchestratorOptions, logger *zap.Logger) *JobOrchestrator {
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.EstimatedDuration <= 0 {
		opts.EstimatedDuration = DefaultEstimatedDuration
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultJobTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobOrchestrator{
		store:      store,
		visualizer: visualizer,
		opts:       opts,
		logger:     logger.Named("orchestrator"),
		sem:        make(chan struct{}, opts.Workers),
		held:       make(map[string]*models.GenerationJob),
	}
}

// Submit records a pending job and schedules it. It returns as soon as the
// job is stored.
func (o *JobOrchestrator) Submit(ctx context.Context, req models.ConceptRequest) (*models.GenerationJob, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		o.opts.Metrics.IncrementJobsRejected("closed")
		return nil, errors.Wrap(apperrors.ErrServiceUnavailable, "orchestrator is shut down")
	}

	job := models.NewGenerationJob(uuid.NewString(), req.RoomType, o.opts.Clock())
	if err := o.store.Create(ctx, job); err != nil {
		if errors.Is(err, apperrors.ErrJobStoreFull) {
			o.opts.Metrics.IncrementJobsRejected("store_full")
		}
		return nil, errors.Wrap(err, "create job")
	}

	o.wg.Add(1)
	go o.execute(job.JobID, req)

	o.opts.Metrics.IncrementJobsSubmitted()
	o.logger.Info("Started asynchronous image generation job",
		zap.String("job_id", job.JobID),
		zap.String("room_type", req.RoomType),
		zap.String("visualizer", o.visualizer.Name()))

	return job, nil
}

// execute owns the job record from pending to a terminal state.
func (o *JobOrchestrator) execute(id string, req models.ConceptRequest) {
	defer o.wg.Done()

	o.sem <- struct{}{}
	defer func() { <-o.sem }()

	o.opts.Metrics.UpdateJobsInFlight(1)
	defer o.opts.Metrics.UpdateJobsInFlight(-1)

	// The job outlives the request that created it.
	ctx := context.Background()
	log := o.logger.With(zap.String("job_id", id))

	started, err := o.store.Update(ctx, id, func(j *models.GenerationJob) error {
		return j.Advance(models.JobProcessing, o.opts.Clock())
	})
	if err != nil {
		log.Error("Failed to start job", zap.Error(err))
		return
	}
	log.Info("Starting background image generation")

	result, genErr := o.generate(ctx, req)

	completedAt := o.opts.Clock()
	final := o.recordOutcome(ctx, started, log, func(j *models.GenerationJob) error {
		if genErr != nil {
			j.ErrorMessage = genErr.Error()
			return j.Advance(models.JobFailed, completedAt)
		}
		j.ImageURL = result.ImageURL
		j.ImagePath = result.ImagePath
		j.DesignDescription = result.DesignDescription
		j.GenerationMetadata = result.Metadata
		return j.Advance(models.JobCompleted, completedAt)
	})
	if final == nil {
		return
	}

	elapsed := final.CompletedAt.Sub(*started.StartedAt)
	o.opts.Metrics.RecordJobFinished(string(final.Status), float64(elapsed.Milliseconds()))

	if genErr != nil {
		log.Error("Background image generation failed", zap.Error(genErr), zap.Duration("elapsed", elapsed))
	} else {
		log.Info("Background image generation completed",
			zap.String("image_url", final.ImageURL), zap.Duration("elapsed", elapsed))
	}

	o.archive(ctx, final)
}

// recordOutcome commits the final state, retrying a few times. When the store
// keeps refusing, the state is held in process so pollers still see it.
func (o *JobOrchestrator) recordOutcome(ctx context.Context, started *models.GenerationJob, log *zap.Logger, fn func(*models.GenerationJob) error) *models.GenerationJob {
	var err error
	for attempt := 1; attempt <= outcomeAttempts; attempt++ {
		var final *models.GenerationJob
		if final, err = o.store.Update(ctx, started.JobID, fn); err == nil {
			return final
		}
		log.Warn("Failed to record job outcome", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < outcomeAttempts {
			time.Sleep(o.opts.RetryDelay)
		}
	}

	final := started.Clone()
	if applyErr := fn(final); applyErr != nil {
		log.Error("Job outcome cannot be applied", zap.Error(applyErr))
		return nil
	}
	o.heldMu.Lock()
	o.held[final.JobID] = final
	o.heldMu.Unlock()
	log.Error("Job store unavailable, holding outcome until the next sweep", zap.Error(err))
	return final.Clone()
}

func (o *JobOrchestrator) heldOutcome(id string) *models.GenerationJob {
	o.heldMu.Lock()
	defer o.heldMu.Unlock()
	if job, ok := o.held[id]; ok {
		return job.Clone()
	}
	return nil
}

// flushHeld writes held outcomes back to the store. Outcomes older than the
// TTL are dropped once the store has had its chance.
func (o *JobOrchestrator) flushHeld(ctx context.Context, cutoff time.Time) {
	o.heldMu.Lock()
	pending := make([]*models.GenerationJob, 0, len(o.held))
	for _, job := range o.held {
		pending = append(pending, job.Clone())
	}
	o.heldMu.Unlock()

	for _, job := range pending {
		_, err := o.store.Update(ctx, job.JobID, func(j *models.GenerationJob) error {
			*j = *job.Clone()
			return nil
		})
		if err != nil && job.CompletedAt != nil && job.CompletedAt.After(cutoff) {
			o.logger.Warn("Held job outcome still not recorded", zap.String("job_id", job.JobID), zap.Error(err))
			continue
		}
		o.heldMu.Lock()
		delete(o.held, job.JobID)
		o.heldMu.Unlock()
	}
}

// generate calls the visualizer, turning a panic into an error so that a
// broken collaborator fails the job instead of the process.
func (o *JobOrchestrator) generate(ctx context.Context, req models.ConceptRequest) (result *models.ConceptResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(apperrors.ErrGenerationFailure, "visualizer panic: %v", r)
		}
	}()

	result, err = o.visualizer.Generate(ctx, req)
	if err == nil && result == nil {
		err = errors.Wrap(apperrors.ErrGenerationFailure, "visualizer returned no result")
	}
	return result, err
}

func (o *JobOrchestrator) archive(ctx context.Context, job *models.GenerationJob) {
	if o.opts.Archive == nil {
		return
	}
	if err := o.opts.Archive.Save(ctx, job); err != nil {
		o.logger.Warn("Failed to archive job", zap.String("job_id", job.JobID), zap.Error(err))
	}
}

// GetStatus returns a snapshot of the job, looking in the archive once the
// live store has let it go.
func (o *JobOrchestrator) GetStatus(ctx context.Context, id string) (*models.GenerationJob, error) {
	if job := o.heldOutcome(id); job != nil {
		return job, nil
	}

	job, err := o.store.Get(ctx, id)
	if err == nil {
		return job, nil
	}
	if !errors.Is(err, apperrors.ErrJobNotFound) || o.opts.Archive == nil {
		return nil, err
	}

	job, err = o.opts.Archive.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, errors.Wrap(err, "archive lookup")
	}
	return job, nil
}

// StatusView renders the poll response for a job.
func (o *JobOrchestrator) StatusView(job *models.GenerationJob, now time.Time) map[string]any {
	view := map[string]any{
		"job_id":     job.JobID,
		"status":     job.Status,
		"room_type":  job.RoomType,
		"created_at": job.CreatedAt.Format(time.RFC3339),
	}

	switch job.Status {
	case models.JobPending:
		view["progress_message"] = queuedMessage

	case models.JobProcessing:
		remaining := o.opts.EstimatedDuration - now.Sub(job.CreatedAt)
		view["estimated_remaining_seconds"] = int(max(0, remaining.Seconds()))
		view["progress_message"] = processingMessage

	case models.JobCompleted:
		view["completed_at"] = formatTime(job.CompletedAt)
		view["image_url"] = job.ImageURL
		view["image_path"] = job.ImagePath
		view["design_description"] = job.DesignDescription
		view["generation_metadata"] = job.GenerationMetadata
		view["disclaimer"] = generation.Disclaimer

	case models.JobFailed:
		view["completed_at"] = formatTime(job.CompletedAt)
		view["error_message"] = job.ErrorMessage
		view["fallback_message"] = failedMessage
	}

	return view
}

// EvictExpired drops finished jobs older than the TTL from the live store.
func (o *JobOrchestrator) EvictExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-o.opts.TTL)
	o.flushHeld(ctx, cutoff)

	n, err := o.store.Evict(ctx, cutoff)
	if err != nil {
		return n, errors.Wrap(err, "evict jobs")
	}
	o.opts.Metrics.AddJobsEvicted(n)
	return n, nil
}

// Stats reports the live store's contents.
func (o *JobOrchestrator) Stats(ctx context.Context) jobstore.Stats {
	return o.store.Stats(ctx)
}

// Visualizer names the active strategy.
func (o *JobOrchestrator) Visualizer() string {
	return o.visualizer.Name()
}

// Close stops accepting jobs and waits for those already submitted.
func (o *JobOrchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.wg.Wait()
	o.logger.Info("Orchestrator stopped")
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func (o *JobOrchestrator) String() string {
	return fmt.Sprintf("JobOrchestrator(workers=%d, store=%s)", o.opts.Workers, o.store.Name())
}
