package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/okosoff-test/hockeytest/internal/clock"
)

// Jobs is the periodic work the scheduler drives.
type Jobs interface {
	Tick(ctx context.Context)
	CheckAutoRelease(ctx context.Context) bool
}

// Scheduler runs the lock/reset tick on a fixed interval and the auto-release
// check at the top of every minute, both in league time.
type Scheduler struct {
	s gocron.Scheduler
}

// New registers the league jobs. Call Start to begin running them.
func New(ctx context.Context, jobs Jobs, clk *clock.Clock, tick time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler(
		gocron.WithClock(clk.Source()),
		gocron.WithLocation(clk.Location()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(tick),
		gocron.NewTask(func() { jobs.Tick(ctx) }),
		gocron.WithName("tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule tick: %w", err)
	}

	_, err = s.NewJob(
		gocron.CronJob("* * * * *", false),
		gocron.NewTask(func() {
			if jobs.CheckAutoRelease(ctx) {
				log.Info("Scheduled roster release ran")
			}
		}),
		gocron.WithName("auto-release"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule auto release: %w", err)
	}
	return &Scheduler{s: s}, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.s.Start()
	log.Info("Scheduler started", "jobs", len(s.s.Jobs()))
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
