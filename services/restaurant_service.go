package services

import (
	"context"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RestaurantService defines restaurant management operations.
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, req *models.CreateRestaurantRequest) (*models.Restaurant, *ServiceError)
	GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, *ServiceError)
	ListRestaurants(ctx context.Context, activeOnly bool) ([]models.Restaurant, *ServiceError)
	UpdateRestaurant(ctx context.Context, id uuid.UUID, req *models.UpdateRestaurantRequest) (*models.Restaurant, *ServiceError)
	DeactivateRestaurant(ctx context.Context, id uuid.UUID) *ServiceError
}

type restaurantServiceImpl struct {
	repo   repository.RestaurantRepository
	logger *zap.Logger
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo repository.RestaurantRepository, logger *zap.Logger) RestaurantService {
	return &restaurantServiceImpl{repo: repo, logger: logger}
}

// CreateRestaurant stores the restaurant with its weekly schedule, Monday to Friday unless given.
func (s *restaurantServiceImpl) CreateRestaurant(ctx context.Context, req *models.CreateRestaurantRequest) (*models.Restaurant, *ServiceError) {
	weekdays := req.Weekdays
	if weekdays == nil {
		weekdays = models.DefaultWeekdays
	}
	if svcErr := validateWeekdays(weekdays); svcErr != nil {
		return nil, svcErr
	}

	restaurant := &models.Restaurant{
		Name:        req.Name,
		ContactName: req.ContactName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Address:     req.Address,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, restaurant, weekdays); err != nil {
		s.logger.Error("Failed to create restaurant", zap.String("name", req.Name), zap.Error(err))
		return nil, internalError("Failed to create restaurant")
	}

	s.logger.Info("Restaurant created", zap.String("restaurant_id", restaurant.ID.String()), zap.String("name", restaurant.Name))
	return restaurant, nil
}

func (s *restaurantServiceImpl) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, *ServiceError) {
	restaurant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeRestaurantNotFound, "Restaurant not found")
		}
		s.logger.Error("Failed to get restaurant", zap.String("restaurant_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to get restaurant")
	}
	return restaurant, nil
}

func (s *restaurantServiceImpl) ListRestaurants(ctx context.Context, activeOnly bool) ([]models.Restaurant, *ServiceError) {
	restaurants, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		s.logger.Error("Failed to list restaurants", zap.Error(err))
		return nil, internalError("Failed to list restaurants")
	}
	return restaurants, nil
}

func (s *restaurantServiceImpl) UpdateRestaurant(ctx context.Context, id uuid.UUID, req *models.UpdateRestaurantRequest) (*models.Restaurant, *ServiceError) {
	restaurant, svcErr := s.GetRestaurant(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.ContactName != nil {
		restaurant.ContactName = *req.ContactName
	}
	if req.PhoneNumber != nil {
		restaurant.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		restaurant.Email = *req.Email
	}
	if req.Address != nil {
		restaurant.Address = *req.Address
	}
	if req.IsActive != nil {
		restaurant.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, restaurant); err != nil {
		s.logger.Error("Failed to update restaurant", zap.String("restaurant_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to update restaurant")
	}
	return restaurant, nil
}

// DeactivateRestaurant soft-deletes the restaurant.
func (s *restaurantServiceImpl) DeactivateRestaurant(ctx context.Context, id uuid.UUID) *ServiceError {
	restaurant, svcErr := s.GetRestaurant(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	restaurant.IsActive = false
	if err := s.repo.Update(ctx, restaurant); err != nil {
		s.logger.Error("Failed to deactivate restaurant", zap.String("restaurant_id", id.String()), zap.Error(err))
		return internalError("Failed to deactivate restaurant")
	}
	s.logger.Info("Restaurant deactivated", zap.String("restaurant_id", id.String()))
	return nil
}
