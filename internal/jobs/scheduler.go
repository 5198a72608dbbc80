// Package jobs runs the storefront's periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one named unit of background work.
type Job struct {
	Name string
	// Spec is a six-field cron expression (seconds first).
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(log *zap.Logger, jobs ...Job) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		// a run that is still going when the next tick arrives is skipped
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs:   jobs,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers every job and starts the cron loop.
func (s *Scheduler) Start() error {
	for _, j := range s.jobs {
		if j.Spec == "" {
			s.log.Info("job disabled", zap.String("job", j.Name))
			continue
		}
		if _, err := s.cron.AddFunc(j.Spec, func() { _ = RunOnce(s.ctx, s.log, j) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", j.Name, j.Spec, err)
		}
		s.log.Info("job scheduled", zap.String("job", j.Name), zap.String("spec", j.Spec))
	}
	s.cron.Start()
	return nil
}

// Stop cancels running jobs and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce runs j and logs the outcome with its duration.
func RunOnce(ctx context.Context, log *zap.Logger, j Job) error {
	start := time.Now()
	log.Info("job started", zap.String("job", j.Name))

	err := j.Run(ctx)
	fields := []zap.Field{zap.String("job", j.Name), zap.Duration("duration", time.Since(start))}
	if err != nil {
		log.Error("job failed", append(fields, zap.Error(err))...)
		return err
	}
	log.Info("job finished", fields...)
	return nil
}
