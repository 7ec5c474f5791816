// Package scheduler fires the daily checklist instantiation so every
// child's tasks exist before anyone opens the board.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/kamelfcis/childtodotasks/internal/ledger"
)

// cronParser parses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow,
)

// Config holds the dependencies for the scheduler.
type Config struct {
	Service  *ledger.Service
	Logger   *slog.Logger
	CronSpec string         // 5-field cron expression for ensure runs
	Location *time.Location // day-boundary timezone; nil means local
}

// Scheduler sleeps until the next cron fire and then runs
// EnsureDailyTasks for every child. Ensure is idempotent, so overlapping
// or repeated fires are harmless.
type Scheduler struct {
	svc      *ledger.Service
	logger   *slog.Logger
	schedule cronlib.Schedule
	loc      *time.Location

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler from the given config.
func NewScheduler(cfg Config) (*Scheduler, error) {
	schedule, err := cronParser.Parse(cfg.CronSpec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", cfg.CronSpec, err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		svc:      cfg.Service,
		logger:   logger,
		schedule: schedule,
		loc:      loc,
	}, nil
}

// Start begins the scheduler loop in a background goroutine. It respects
// the provided context for shutdown.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)
	s.logger.Info("scheduler started", "next", s.schedule.Next(time.Now().In(s.loc)))
}

// Stop cancels the scheduler loop and waits for it to exit.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		now := time.Now().In(s.loc)
		next := s.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ensures today's checklist for every child. Per-child failures
// are logged and skipped so one broken row cannot starve the rest.
func (s *Scheduler) RunOnce(ctx context.Context) {
	day := ledger.Today(s.loc)
	children, err := s.svc.ListChildren(ctx)
	if err != nil {
		s.logger.Error("list children", "err", err)
		return
	}
	for _, c := range children {
		instances, err := s.svc.EnsureDailyTasks(ctx, c.ID, day)
		if err != nil {
			s.logger.Error("ensure daily tasks", "child", c.Name, "day", day, "err", err)
			continue
		}
		s.logger.Info("ensured daily tasks", "child", c.Name, "day", day, "tasks", len(instances))
	}
}
