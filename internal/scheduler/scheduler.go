package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/config"
)

const jobTimeout = 2 * time.Minute

// Flusher saves the ledger when it has unsaved changes.
type Flusher interface {
	Flush(ctx context.Context) (bool, error)
}

// Syncer copies the ledger somewhere else.
type Syncer interface {
	Sync(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	flusher Flusher
	mirror  Syncer
	cfg     config.SchedulerConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance. mirror may be nil when the
// spreadsheet mirror is disabled.
func NewScheduler(cfg config.SchedulerConfig, flusher Flusher, mirror Syncer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	c := cron.New()

	return &Scheduler{
		cron:    c,
		flusher: flusher,
		mirror:  mirror,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.AutosaveCron, s.autosave); err != nil {
		return fmt.Errorf("schedule autosave %q: %w", s.cfg.AutosaveCron, err)
	}

	if s.mirror != nil {
		if _, err := s.cron.AddFunc(s.cfg.MirrorCron, s.syncMirror); err != nil {
			return fmt.Errorf("schedule mirror %q: %w", s.cfg.MirrorCron, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) autosave() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	saved, err := s.flusher.Flush(ctx)
	if err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
		return
	}
	if saved {
		s.logger.Info("ledger autosaved")
	}
}

func (s *Scheduler) syncMirror() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.mirror.Sync(ctx); err != nil {
		s.logger.Error("failed to mirror ledger", zap.Error(err))
	}
}
