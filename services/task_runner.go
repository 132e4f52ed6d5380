package services

import (
	"context"
	"fmt"
	"time"

	"meal-service/models"

	"go.uber.org/zap"
)

const taskLockTTL = 24 * time.Hour

// Locker grants a named lock to a single holder until ttl expires or it is released.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TaskRunner executes scheduled dispatch tasks at most once per day across replicas.
type TaskRunner interface {
	Run(ctx context.Context, task string) (*models.TaskRunResult, *ServiceError)
}

type taskRunnerImpl struct {
	dispatch DispatchService
	locker   Locker
	clock    Clock
	logger   *zap.Logger
}

// NewTaskRunner creates a new TaskRunner. locker may be nil.
func NewTaskRunner(dispatch DispatchService, locker Locker, clock Clock, logger *zap.Logger) TaskRunner {
	return &taskRunnerImpl{dispatch: dispatch, locker: locker, clock: clock, logger: logger}
}

func (r *taskRunnerImpl) Run(ctx context.Context, task string) (*models.TaskRunResult, *ServiceError) {
	var run func(context.Context) (models.DispatchResult, *ServiceError)
	switch task {
	case models.TaskDailyReminders:
		run = r.dispatch.SendDailyReminders
	case models.TaskRestaurantSummaries:
		run = r.dispatch.SendRestaurantSummaries
	default:
		return nil, newErrorf(CodeValidation, "Unknown task %q", task)
	}

	result := &models.TaskRunResult{Task: task, StartedAt: time.Now().UTC()}

	var key string
	locked := false
	if r.locker != nil {
		key = fmt.Sprintf("meal-service:task:%s:%s", task, models.FormatDate(r.clock.Today()))
		acquired, err := r.locker.Acquire(ctx, key, taskLockTTL)
		switch {
		case err != nil:
			r.logger.Warn("Task lock unavailable, running anyway", zap.String("task", task), zap.Error(err))
		case !acquired:
			r.logger.Info("Task already ran today, skipping", zap.String("task", task))
			result.OK = true
			result.AlreadyRan = true
			return result, nil
		default:
			locked = true
		}
	}

	r.logger.Info("Task started", zap.String("task", task))
	res, svcErr := run(ctx)
	if svcErr != nil {
		r.logger.Error("Task failed", zap.String("task", task), zap.String("error", svcErr.Message))
		if locked {
			if err := r.locker.Release(context.WithoutCancel(ctx), key); err != nil {
				r.logger.Warn("Failed to release task lock", zap.String("key", key), zap.Error(err))
			}
		}
		return nil, svcErr
	}

	result.OK = true
	result.Result = res
	r.logger.Info("Task finished", zap.String("task", task), zap.Duration("duration", time.Since(result.StartedAt)))
	return result, nil
}
