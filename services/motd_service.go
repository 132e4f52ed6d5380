package services

import (
	"context"
	"strings"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MotdService manages the quick meal-of-the-day options shown on the order page.
type MotdService interface {
	// ListOptions returns one row per active restaurant. A nil weekday means today.
	ListOptions(ctx context.Context, weekday *int) ([]models.MotdRow, *ServiceError)
	SetOption(ctx context.Context, req *models.SetMotdRequest) (*models.MotdRow, *ServiceError)
}

type motdServiceImpl struct {
	options     repository.MotdRepository
	restaurants repository.RestaurantRepository
	clock       Clock
	logger      *zap.Logger
}

func NewMotdService(options repository.MotdRepository, restaurants repository.RestaurantRepository, clock Clock, logger *zap.Logger) MotdService {
	return &motdServiceImpl{options: options, restaurants: restaurants, clock: clock, logger: logger}
}

func (s *motdServiceImpl) ListOptions(ctx context.Context, weekday *int) ([]models.MotdRow, *ServiceError) {
	day := models.Weekday(s.clock.Today())
	if weekday != nil {
		day = *weekday
	}
	if svcErr := validateWeekdays([]int{day}); svcErr != nil {
		return nil, svcErr
	}

	restaurants, err := s.restaurants.FindAll(ctx, true)
	if err != nil {
		s.logger.Error("Failed to list restaurants", zap.Error(err))
		return nil, internalError("Failed to load MOTD options")
	}
	options, err := s.options.FindByWeekday(ctx, day)
	if err != nil {
		s.logger.Error("Failed to list MOTD options", zap.Int("weekday", day), zap.Error(err))
		return nil, internalError("Failed to load MOTD options")
	}

	text := make(map[uuid.UUID]string, len(options))
	for _, o := range options {
		text[o.RestaurantID] = o.OptionText
	}
	rows := make([]models.MotdRow, 0, len(restaurants))
	for _, r := range restaurants {
		rows = append(rows, models.MotdRow{
			RestaurantID:   r.ID,
			RestaurantName: r.Name,
			Weekday:        day,
			MotdOption:     text[r.ID],
		})
	}
	return rows, nil
}

// SetOption upserts the option. Blank text removes it.
func (s *motdServiceImpl) SetOption(ctx context.Context, req *models.SetMotdRequest) (*models.MotdRow, *ServiceError) {
	if req.Weekday == nil {
		return nil, newError(CodeValidation, "weekday is required")
	}
	weekday := *req.Weekday
	if svcErr := validateWeekdays([]int{weekday}); svcErr != nil {
		return nil, svcErr
	}

	restaurant, err := s.restaurants.FindByID(ctx, req.RestaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeRestaurantNotFound, "Restaurant not found")
		}
		s.logger.Error("Failed to load restaurant", zap.String("restaurant_id", req.RestaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to save MOTD option")
	}

	text := strings.TrimSpace(req.MotdOption)
	if text == "" {
		err = s.options.Delete(ctx, restaurant.ID, weekday)
	} else {
		err = s.options.Upsert(ctx, &models.MotdOption{RestaurantID: restaurant.ID, Weekday: weekday, OptionText: text})
	}
	if err != nil {
		s.logger.Error("Failed to save MOTD option",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.Int("weekday", weekday),
			zap.Error(err))
		return nil, internalError("Failed to save MOTD option")
	}

	s.logger.Info("MOTD option saved",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.Int("weekday", weekday),
		zap.Bool("cleared", text == ""))
	return &models.MotdRow{RestaurantID: restaurant.ID, RestaurantName: restaurant.Name, Weekday: weekday, MotdOption: text}, nil
}
