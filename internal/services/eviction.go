package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// EvictionScheduler periodically drops expired jobs from the live store.
type EvictionScheduler struct {
	orchestrator *JobOrchestrator
	cron         *cron.Cron
	logger       *zap.Logger
	timeout      time.Duration
}

// NewEvictionScheduler registers the sweep under schedule, which accepts
// standard cron syntax as well as descriptors like "@every 1m".
func NewEvictionScheduler(o *JobOrchestrator, schedule string, logger *zap.Logger) (*EvictionScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &EvictionScheduler{
		orchestrator: o,
		cron:         cron.New(),
		logger:       logger.Named("eviction"),
		timeout:      30 * time.Second,
	}
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, errors.Wrapf(err, "invalid eviction schedule %q", schedule)
	}
	return s, nil
}

// Sweep runs one eviction pass.
func (s *EvictionScheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.orchestrator.EvictExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Job eviction failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Debug("Job eviction pass", zap.Int("evicted", n))
	}
}

func (s *EvictionScheduler) Start() {
	s.cron.Start()
	s.logger.Info("Job eviction scheduler started")
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *EvictionScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Job eviction scheduler stopped")
}
