package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	log  *slog.Logger
}

// New creates a scheduler evaluating schedules in loc. Jobs run with ctx.
func New(ctx context.Context, loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		ctx:  ctx,
		log:  logger.With(slog.String("component", "scheduler")),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started",
		slog.String("location", s.cron.Location().String()),
		slog.Int("jobs", s.Entries()))
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "@midnight"          - Every day at 00:00
//   - "*/5 * * * *"        - Every 5 minutes
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(job)
	})
	if err != nil {
		return err
	}

	s.log.Info("Job registered",
		slog.String("schedule", schedule),
		slog.String("job", job.Name()))
	return nil
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) run(job Job) {
	s.log.Debug("Running job", slog.String("job", job.Name()))

	if err := job.Run(s.ctx); err != nil {
		s.log.Error("Job failed",
			slog.String("job", job.Name()),
			slog.String("error", err.Error()))
		return
	}
	s.log.Debug("Job completed", slog.String("job", job.Name()))
}
