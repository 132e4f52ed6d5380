package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"meal-service/models"
	awspkg "meal-service/pkg/aws"
	"meal-service/services"

	"go.uber.org/zap"
)

// TaskConsumer runs dispatch tasks requested through an SQS queue, for example by
// an EventBridge schedule.
type TaskConsumer struct {
	queue  *awspkg.SQSConsumer
	runner services.TaskRunner
	logger *zap.Logger
}

func NewTaskConsumer(queue *awspkg.SQSConsumer, runner services.TaskRunner, logger *zap.Logger) *TaskConsumer {
	return &TaskConsumer{queue: queue, runner: runner, logger: logger}
}

func (c *TaskConsumer) Start(ctx context.Context) {
	c.logger.Info("Task consumer started")
	if err := c.queue.StartPolling(ctx, c.Handle); err != nil && ctx.Err() == nil {
		c.logger.Error("Task consumer stopped", zap.Error(err))
	}
}

// snsEnvelope unwraps the SNS to SQS message wrapper.
type snsEnvelope struct {
	Type    string `json:"Type"`
	Message string `json:"Message"`
}

// Handle returns an error only when the task should be retried. Malformed and
// unknown requests are dropped.
func (c *TaskConsumer) Handle(ctx context.Context, body string) error {
	payload := []byte(body)

	var envelope snsEnvelope
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Type == "Notification" && envelope.Message != "" {
		payload = []byte(envelope.Message)
	}

	var req models.RunTaskRequest
	if err := json.Unmarshal(payload, &req); err != nil || req.Task == "" {
		c.logger.Error("Dropping malformed task message", zap.String("body", body), zap.Error(err))
		return nil
	}

	result, svcErr := c.runner.Run(ctx, req.Task)
	if svcErr != nil {
		if svcErr.StatusCode < http.StatusInternalServerError {
			c.logger.Error("Dropping rejected task message", zap.String("task", req.Task), zap.String("error", svcErr.Message))
			return nil
		}
		return fmt.Errorf("task %s failed: %s", req.Task, svcErr.Message)
	}

	c.logger.Info("Queued task done",
		zap.String("task", req.Task),
		zap.Bool("already_ran", result.AlreadyRan),
		zap.Int("sent", result.Result.Sent),
		zap.Int("failed", result.Result.Failed))
	return nil
}
