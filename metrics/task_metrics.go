package metrics

import (
	"context"
	"time"

	"meal-service/models"
	awspkg "meal-service/pkg/aws"
	"meal-service/services"

	"go.uber.org/zap"
)

type instrumentedRunner struct {
	next   services.TaskRunner
	cw     *awspkg.MetricsClient
	logger *zap.Logger
}

// InstrumentTaskRunner records Prometheus counters for every run and, when cw is
// non-nil, pushes the sent/failed counts to CloudWatch.
func InstrumentTaskRunner(next services.TaskRunner, cw *awspkg.MetricsClient, logger *zap.Logger) services.TaskRunner {
	return &instrumentedRunner{next: next, cw: cw, logger: logger}
}

func (r *instrumentedRunner) Run(ctx context.Context, task string) (*models.TaskRunResult, *services.ServiceError) {
	result, svcErr := r.next.Run(ctx, task)
	switch {
	case svcErr != nil:
		TaskRuns.WithLabelValues(task, "error").Inc()
		return result, svcErr
	case result.AlreadyRan:
		TaskRuns.WithLabelValues(task, "skipped").Inc()
		return result, nil
	}

	TaskRuns.WithLabelValues(task, "ok").Inc()
	DispatchMessages.WithLabelValues(task, "sent").Add(float64(result.Result.Sent))
	DispatchMessages.WithLabelValues(task, "failed").Add(float64(result.Result.Failed))
	DispatchMessages.WithLabelValues(task, "skipped").Add(float64(result.Result.Skipped))

	if r.cw != nil {
		sentName, failedName := awspkg.MetricSummariesSent, awspkg.MetricSummariesFailed
		if task == models.TaskDailyReminders {
			sentName, failedName = awspkg.MetricRemindersSent, awspkg.MetricRemindersFailed
		}
		go func(res models.DispatchResult) {
			pushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{"Task": task}
			if err := r.cw.RecordValue(pushCtx, sentName, float64(res.Sent), dims); err != nil {
				r.logger.Warn("Failed to push task metric", zap.String("task", task), zap.Error(err))
			}
			if err := r.cw.RecordValue(pushCtx, failedName, float64(res.Failed), dims); err != nil {
				r.logger.Warn("Failed to push task metric", zap.String("task", task), zap.Error(err))
			}
		}(result.Result)
	}
	return result, nil
}
