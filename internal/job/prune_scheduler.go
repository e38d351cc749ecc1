// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"catalog-search-service/internal/app/service"
	"catalog-search-service/pkg/locker"
)

// pruneLockKey guards pruning across instances; only one instance deletes
// old searches per interval.
const pruneLockKey = "catalog-search:prune-searches"

// PruneScheduler periodically deletes saved searches older than the
// configured retention, with distributed locking so only one instance runs
// the job at a time.
type PruneScheduler struct {
	history   *service.HistoryService
	interval  time.Duration
	timeout   time.Duration
	retention time.Duration
	logger    *zap.Logger
	locker    locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// PruneConfig holds prune scheduler configuration.
type PruneConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	Retention time.Duration
	OnStartup bool
}

// NewPruneScheduler creates a new PruneScheduler.
func NewPruneScheduler(
	history *service.HistoryService,
	cfg PruneConfig,
	logger *zap.Logger,
	locker locker.DistributedLocker,
) *PruneScheduler {
	return &PruneScheduler{
		history:   history,
		interval:  cfg.Interval,
		timeout:   cfg.Timeout,
		retention: cfg.Retention,
		logger:    logger,
		locker:    locker,
	}
}

// Start begins the background prune job.
func (s *PruneScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting prune scheduler",
		zap.Duration("interval", s.interval),
		zap.Duration("retention", s.retention),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *PruneScheduler) Stop() {
	s.logger.Info("stopping prune scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("prune scheduler stopped")
}

// run is the main loop of the scheduler.
func (s *PruneScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executePrune()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executePrune()
		}
	}
}

// executePrune runs one prune pass under the distributed lock.
func (s *PruneScheduler) executePrune() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	acquired, err := s.locker.Acquire(ctx, pruneLockKey, s.timeout)
	if err != nil {
		s.logger.Error("failed to acquire prune lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("prune lock held by another instance, skipping")
		return
	}
	defer func() {
		if err := s.locker.Release(context.Background(), pruneLockKey); err != nil {
			s.logger.Warn("failed to release prune lock", zap.Error(err))
		}
	}()

	if _, err := s.history.PruneOlderThan(ctx, s.retention); err != nil {
		s.logger.Error("prune run failed", zap.Error(err))
	}
}
