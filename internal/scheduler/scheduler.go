// Package scheduler wires the periodic trigger that drives qualification
// cycles.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Job is one unit of scheduled work, typically a qualification cycle.
type Job func(ctx context.Context)

// Scheduler fires a single job on a fixed interval, with at most one run in
// flight per process. Overlapping ticks are skipped, not queued.
type Scheduler struct {
	interval     time.Duration
	runOnStartup bool
	job          Job
	running      atomic.Bool
}

// New creates a Scheduler. The interval must be positive.
func New(interval time.Duration, runOnStartup bool, job Job) (*Scheduler, error) {
	if interval <= 0 {
		return nil, eris.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	return &Scheduler{
		interval:     interval,
		runOnStartup: runOnStartup,
		job:          job,
	}, nil
}

// Run blocks until ctx is canceled, firing the job on the configured
// interval. On shutdown the trigger stops first, then Run waits for an
// in-flight run to return; the job observes the cancellation through ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	fire := func() {
		if !s.running.CompareAndSwap(false, true) {
			zap.L().Warn("scheduler: previous run still in flight, skipping tick")
			return
		}
		defer s.running.Store(false)
		s.job(ctx)
	}

	if s.runOnStartup {
		zap.L().Info("scheduler: running initial job on startup")
		fire()
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), fire); err != nil {
		return eris.Wrap(err, "scheduler: register job")
	}

	c.Start()
	zap.L().Info("scheduler: started", zap.Duration("interval", s.interval))

	<-ctx.Done()

	zap.L().Info("scheduler: shutting down")
	<-c.Stop().Done()
	return nil
}
