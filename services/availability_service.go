package services

import (
	"context"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService answers and maintains per-weekday restaurant availability.
type AvailabilityService interface {
	IsAvailable(ctx context.Context, restaurantID uuid.UUID, weekday int) (bool, *ServiceError)
	SetAvailability(ctx context.Context, restaurantID uuid.UUID, weekdays []int) ([]models.DayAvailability, *ServiceError)
	GetAvailability(ctx context.Context, restaurantID uuid.UUID) ([]models.DayAvailability, *ServiceError)
}

type availabilityServiceImpl struct {
	repo   repository.RestaurantRepository
	logger *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(repo repository.RestaurantRepository, logger *zap.Logger) AvailabilityService {
	return &availabilityServiceImpl{repo: repo, logger: logger}
}

// IsAvailable is fail-closed: a missing row means closed.
func (s *availabilityServiceImpl) IsAvailable(ctx context.Context, restaurantID uuid.UUID, weekday int) (bool, *ServiceError) {
	if weekday < 0 || weekday > 6 {
		return false, newErrorf(CodeInvalidWeekday, "Invalid weekday %d. Must be 0 (Monday) to 6 (Sunday)", weekday)
	}
	entry, err := s.repo.FindAvailabilityForWeekday(ctx, restaurantID, weekday)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		s.logger.Error("Failed to read availability",
			zap.String("restaurant_id", restaurantID.String()),
			zap.Int("weekday", weekday),
			zap.Error(err))
		return false, internalError("Failed to check restaurant availability")
	}
	return entry.IsAvailable, nil
}

// SetAvailability makes exactly the given weekdays available. Invalid input is rejected before any write.
func (s *availabilityServiceImpl) SetAvailability(ctx context.Context, restaurantID uuid.UUID, weekdays []int) ([]models.DayAvailability, *ServiceError) {
	if svcErr := validateWeekdays(weekdays); svcErr != nil {
		return nil, svcErr
	}

	if _, err := s.repo.FindByID(ctx, restaurantID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeRestaurantNotFound, "Restaurant not found")
		}
		s.logger.Error("Failed to load restaurant", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to update availability")
	}

	if err := s.repo.UpsertAvailability(ctx, restaurantID, weekdays); err != nil {
		s.logger.Error("Failed to upsert availability", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to update availability")
	}

	s.logger.Info("Availability updated",
		zap.String("restaurant_id", restaurantID.String()),
		zap.Ints("weekdays", weekdays))
	return s.GetAvailability(ctx, restaurantID)
}

// GetAvailability returns all seven weekdays, defaulting absent rows to unavailable.
func (s *availabilityServiceImpl) GetAvailability(ctx context.Context, restaurantID uuid.UUID) ([]models.DayAvailability, *ServiceError) {
	entries, err := s.repo.FindAvailability(ctx, restaurantID)
	if err != nil {
		s.logger.Error("Failed to list availability", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to load availability")
	}

	open := make(map[int]bool, len(entries))
	for _, e := range entries {
		open[e.Weekday] = e.IsAvailable
	}

	days := make([]models.DayAvailability, 0, 7)
	for d := 0; d < 7; d++ {
		days = append(days, models.DayAvailability{
			Weekday:     d,
			Name:        models.WeekdayNames[d],
			IsAvailable: open[d],
		})
	}
	return days, nil
}

func validateWeekdays(weekdays []int) *ServiceError {
	for _, d := range weekdays {
		if d < 0 || d > 6 {
			return newErrorf(CodeInvalidWeekday, "Invalid weekday %d. Must be 0 (Monday) to 6 (Sunday)", d)
		}
	}
	return nil
}
