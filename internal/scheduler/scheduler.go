// Package scheduler runs a full sync of every stored table on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rongwang/sheet-tables-server/internal/utils"
)

// Syncer is the part of the service the scheduler drives
type Syncer interface {
	SyncAll(ctx context.Context) (synced, failed int, err error)
}

// Scheduler triggers Syncer.SyncAll on a cron schedule. Runs never overlap:
// a tick that arrives while a run is in progress is skipped.
type Scheduler struct {
	cron    *cron.Cron
	syncer  Syncer
	logger  *utils.Logger
	timeout time.Duration

	// base is cancelled by Stop so a run in progress ends promptly
	base   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

// New creates a scheduler for schedule, a standard five-field cron spec or a
// descriptor such as "@every 15m". An empty schedule returns (nil, nil).
func New(schedule string, syncer Syncer, logger *utils.Logger, timeout time.Duration) (*Scheduler, error) {
	if schedule == "" {
		return nil, nil
	}

	base, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:    cron.New(),
		syncer:  syncer,
		logger:  logger,
		timeout: timeout,
		base:    base,
		cancel:  cancel,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start begins running the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels a run in progress and waits for it to return
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	s.cancel()
	<-done
}

// RunOnce performs one full sync unless another is already running
func (s *Scheduler) RunOnce() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous scheduled sync still running, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx := s.base
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	synced, failed, err := s.syncer.SyncAll(ctx)

	entry := s.logger.WithFields(map[string]interface{}{
		"synced":      synced,
		"failed":      failed,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("scheduled sync aborted")
		return
	}
	entry.Info("scheduled sync finished")
}
