package services

import (
	"context"
	"time"

	"meal-service/models"

	"go.uber.org/zap"
)

// EventPublisher delivers order domain events to the configured bus.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// publishOrderEvent is best-effort: failures are logged and never fail the request.
func publishOrderEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, eventType string, order *models.Order) {
	if publisher == nil {
		logger.Debug("Event bus not configured, skipping event", zap.String("event_type", eventType))
		return
	}

	event := models.OrderEvent{
		EventType:    eventType,
		OrderID:      order.ID.String(),
		UserID:       order.UserID.String(),
		RestaurantID: order.RestaurantID.String(),
		OrderDate:    models.FormatDate(order.OrderDate),
		Status:       order.Status,
		TotalAmount:  order.TotalAmount.StringFixed(2),
		Timestamp:    time.Now().UTC(),
	}

	if err := publisher.PublishOrderEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
		return
	}
	logger.Debug("Order event published", zap.String("event_type", eventType), zap.String("order_id", event.OrderID))
}
