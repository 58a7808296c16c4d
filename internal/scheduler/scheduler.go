// Package scheduler runs periodic housekeeping, currently the orphan
// upload sweep.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	sweepFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetSweepFunction sets the housekeeping job invoked on each tick.
func (s *Scheduler) SetSweepFunction(f func(ctx context.Context) error) {
	s.sweepFunc = f
}

// Start registers the sweep on the given cron schedule and starts the cron
// loop. Without a sweep function the scheduler stays idle.
func (s *Scheduler) Start(schedule string) error {
	if s.sweepFunc == nil {
		log.Println("⚠️ Sweep function not set, scheduler will not run housekeeping")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.sweepFunc(s.ctx); err != nil {
			log.Printf("❌ Upload sweep failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - upload sweep on schedule %q", schedule)
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
