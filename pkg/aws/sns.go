package aws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"meal-service/models"
)

// SNSAPI is the subset of the SNS client used for publishing.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSEventPublisher publishes order events to an SNS topic.
type SNSEventPublisher struct {
	client   SNSAPI
	topicArn string
	logger   *zap.Logger
}

func NewSNSEventPublisher(cfg sdkaws.Config, topicArn string, logger *zap.Logger) *SNSEventPublisher {
	return NewSNSEventPublisherWithClient(sns.NewFromConfig(cfg), topicArn, logger)
}

func NewSNSEventPublisherWithClient(client SNSAPI, topicArn string, logger *zap.Logger) *SNSEventPublisher {
	return &SNSEventPublisher{client: client, topicArn: topicArn, logger: logger}
}

// PublishOrderEvent sends the event as JSON with an event_type message attribute
// so subscribers can filter.
func (p *SNSEventPublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	if p.topicArn == "" {
		return errors.New("empty topic arn")
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: sdkaws.String(p.topicArn),
		Message:  sdkaws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    sdkaws.String("String"),
				StringValue: sdkaws.String(event.EventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed for topic %s: %w", p.topicArn, err)
	}
	p.logger.Debug("Order event sent to SNS", zap.String("event_type", event.EventType), zap.String("order_id", event.OrderID))
	return nil
}
