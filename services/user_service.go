package services

import (
	"context"
	"strings"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService defines user administration operations.
type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError)
	ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError)
	UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError)
	DeactivateUser(ctx context.Context, id uuid.UUID) *ServiceError
}

type userServiceImpl struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{repo: repo, logger: logger}
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newError(CodeDuplicateEmail, "A user with this email already exists")
		}
		s.logger.Error("Failed to create user", zap.String("email", user.Email), zap.Error(err))
		return nil, internalError("Failed to create user")
	}

	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return user, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeUserNotFound, "User not found")
		}
		s.logger.Error("Failed to get user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to get user")
	}
	return user, nil
}

func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *ServiceError) {
	users, total, err := s.repo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, 0, internalError("Failed to list users")
	}
	return users, total, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError) {
	user, svcErr := s.GetUser(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to update user")
	}
	return user, nil
}

// DeactivateUser soft-deletes the user. Their orders are kept.
func (s *userServiceImpl) DeactivateUser(ctx context.Context, id uuid.UUID) *ServiceError {
	user, svcErr := s.GetUser(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	user.IsActive = false
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.String("user_id", id.String()), zap.Error(err))
		return internalError("Failed to deactivate user")
	}
	s.logger.Info("User deactivated", zap.String("user_id", id.String()))
	return nil
}
