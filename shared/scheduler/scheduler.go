package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler optionally runs the refresh pipeline on a cron schedule.
// The service works without it (every run is HTTP-triggered then); a
// schedule turns on background refreshes with overlap protection.
type Scheduler struct {
	schedule string
	job      Job
	cron     *cron.Cron
}

func New(schedule string, job Job) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		job:      job,
		// Prevent overlapping runs
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the job and runs the cron loop until ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.job(ctx); err != nil {
			log.Printf("Scheduled refresh failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Printf("Scheduler started with schedule: %s", s.schedule)
	s.cron.Start()

	<-ctx.Done()
	log.Println("Scheduler stopped")
	s.cron.Stop()
	return ctx.Err()
}
