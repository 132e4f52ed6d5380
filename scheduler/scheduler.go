package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"meal-service/services"

	"go.uber.org/zap"
)

// Job runs Task every day at Hour:Minute.
type Job struct {
	Task   string
	Hour   int
	Minute int
}

// ParseJob builds a Job from a "HH:MM" clock time.
func ParseJob(task, at string) (Job, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return Job{}, fmt.Errorf("invalid time %q for %s: %w", at, task, err)
	}
	return Job{Task: task, Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Next returns the first run strictly after now.
func (j Job) Next(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), j.Hour, j.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler fires jobs through the task runner in a fixed location.
type Scheduler struct {
	runner   services.TaskRunner
	jobs     []Job
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
	wg       sync.WaitGroup
}

func New(runner services.TaskRunner, location *time.Location, logger *zap.Logger, jobs ...Job) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{runner: runner, jobs: jobs, location: location, logger: logger, now: time.Now}
}

// Start launches one goroutine per job; they stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

// Wait blocks until every job loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	for {
		now := s.now().In(s.location)
		next := job.Next(now)
		s.logger.Info("Scheduled task", zap.String("task", job.Task), zap.Time("next_run", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopping", zap.String("task", job.Task))
			return
		case <-timer.C:
		}

		result, svcErr := s.runner.Run(ctx, job.Task)
		if svcErr != nil {
			s.logger.Error("Scheduled task failed", zap.String("task", job.Task), zap.String("code", svcErr.Code), zap.String("error", svcErr.Message))
			continue
		}
		s.logger.Info("Scheduled task done",
			zap.String("task", job.Task),
			zap.Bool("already_ran", result.AlreadyRan),
			zap.Int("sent", result.Result.Sent),
			zap.Int("failed", result.Result.Failed))
	}
}
