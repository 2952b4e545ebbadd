package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper runs one advisory sweep.
type Sweeper interface {
	Sweep(ctx context.Context) (SweepResult, error)
}

// Scheduler triggers advisory sweeps on an interval.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   logrus.FieldLogger
}

// NewScheduler constructs a Scheduler. A non-positive interval disables it.
func NewScheduler(sweeper Sweeper, interval time.Duration, logger logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the scheduler loop and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.sweeper == nil || s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if _, err := s.sweeper.Sweep(ctx); err != nil && ctx.Err() == nil && s.logger != nil {
		s.logger.Errorf("advisory sweep schedule error: %v", err)
	}
}
