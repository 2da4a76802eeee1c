package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper evicts abandoned play sessions and reports how many it removed.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// Scheduler runs background maintenance for the server.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
}

func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		interval:  interval,
	}
}

// Start schedules the session sweep and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.sweepSessions); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweepSessions() {
	if removed := s.sweeper.Sweep(context.Background()); removed > 0 {
		log.Printf("evicted %d abandoned sessions", removed)
	}
}
