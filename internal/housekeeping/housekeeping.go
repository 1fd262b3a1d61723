// Package housekeeping runs periodic maintenance jobs.
package housekeeping

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultInterval   = time.Hour
	DefaultStaleAfter = 24 * time.Hour
)

// Expirer closes sessions left open longer than maxAge.
type Expirer interface {
	ExpireStale(ctx context.Context, maxAge time.Duration) (int, error)
}

// Scheduler closes abandoned sessions on a fixed interval.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	expirer    Expirer
	interval   time.Duration
	staleAfter time.Duration
	logger     *zap.Logger
}

// New creates a scheduler. Non-positive durations use the defaults.
func New(expirer Expirer, interval, staleAfter time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		expirer:    expirer,
		interval:   interval,
		staleAfter: staleAfter,
		logger:     logger,
	}
}

// Run schedules the expiry job, runs it once right away, and blocks until
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule session expiry: %w", err)
	}

	s.logger.Info("housekeeping started",
		zap.Duration("interval", s.interval),
		zap.Duration("stale_after", s.staleAfter),
	)
	s.scheduler.StartAsync()
	<-ctx.Done()
	s.scheduler.Stop()
	s.logger.Info("housekeeping stopped")
	return nil
}

// RunOnce closes stale sessions now and returns how many were closed.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	n, err := s.expirer.ExpireStale(ctx, s.staleAfter)
	if err != nil {
		s.logger.Error("expire stale sessions", zap.Int("closed", n), zap.Error(err))
		return n, err
	}
	if n > 0 {
		s.logger.Info("closed stale sessions", zap.Int("closed", n))
	} else {
		s.logger.Debug("no stale sessions")
	}
	return n, nil
}
