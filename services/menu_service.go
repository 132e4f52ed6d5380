package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStorage issues presigned upload targets.
type FileStorage interface {
	PresignPut(ctx context.Context, key, contentType string) (url string, headers map[string]string, expiresIn int64, err error)
}

var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// MenuService defines menu catalog operations.
type MenuService interface {
	ValidateMenuDateRange(ctx context.Context, from, until time.Time, restaurantID uuid.UUID) *ServiceError
	CreateMenu(ctx context.Context, req *models.CreateMenuRequest) (*models.Menu, *ServiceError)
	AvailableMenus(ctx context.Context, date time.Time) ([]models.Menu, *ServiceError)
	ListMenus(ctx context.Context, filter models.MenuFilter) ([]models.Menu, *ServiceError)
	GetMenu(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Menu, *ServiceError)
	UpdateMenu(ctx context.Context, id uuid.UUID, req *models.UpdateMenuRequest) (*models.Menu, *ServiceError)
	DeleteMenu(ctx context.Context, id uuid.UUID) *ServiceError

	AddMenuItem(ctx context.Context, menuID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, req *models.UpdateMenuItemRequest) (*models.MenuItem, *ServiceError)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) *ServiceError

	PresignMenuUpload(ctx context.Context, menuID uuid.UUID, req *models.UploadURLRequest) (*models.UploadURLResponse, *ServiceError)
}

type menuServiceImpl struct {
	menus       repository.MenuRepository
	restaurants repository.RestaurantRepository
	storage     FileStorage
	clock       Clock
	logger      *zap.Logger
}

// NewMenuService creates a new MenuService. storage may be nil when uploads are not configured.
func NewMenuService(
	menus repository.MenuRepository,
	restaurants repository.RestaurantRepository,
	storage FileStorage,
	clock Clock,
	logger *zap.Logger,
) MenuService {
	return &menuServiceImpl{
		menus:       menus,
		restaurants: restaurants,
		storage:     storage,
		clock:       clock,
		logger:      logger,
	}
}

// ValidateMenuDateRange checks ordering, start-in-past and overlap with active menus, in that order.
func (s *menuServiceImpl) ValidateMenuDateRange(ctx context.Context, from, until time.Time, restaurantID uuid.UUID) *ServiceError {
	if from.After(until) {
		return newError(CodeInvalidRange, "Start date must be before end date")
	}
	if from.Before(s.clock.Today()) {
		return newError(CodePastStart, "Menu availability cannot start in the past")
	}

	overlapping, err := s.menus.FindOverlappingActive(ctx, restaurantID, from, until)
	if err != nil {
		s.logger.Error("Failed to check menu overlap", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return internalError("Failed to validate menu dates")
	}
	if len(overlapping) > 0 {
		return newErrorf(CodeOverlappingMenu, "Menu dates overlap with existing menu: %s", overlapping[0].Name)
	}
	return nil
}

// CreateMenu validates the range and stores the menu as the restaurant's only active menu.
func (s *menuServiceImpl) CreateMenu(ctx context.Context, req *models.CreateMenuRequest) (*models.Menu, *ServiceError) {
	from, err := models.ParseDate(req.AvailableFrom)
	if err != nil {
		return nil, newError(CodeValidation, err.Error())
	}
	until, err := models.ParseDate(req.AvailableUntil)
	if err != nil {
		return nil, newError(CodeValidation, err.Error())
	}

	if _, err := s.restaurants.FindByID(ctx, req.RestaurantID); err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeRestaurantNotFound, "Restaurant not found")
		}
		s.logger.Error("Failed to load restaurant", zap.String("restaurant_id", req.RestaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to create menu")
	}

	if svcErr := s.ValidateMenuDateRange(ctx, from, until, req.RestaurantID); svcErr != nil {
		return nil, svcErr
	}

	menu := &models.Menu{
		RestaurantID:   req.RestaurantID,
		Name:           req.Name,
		Description:    req.Description,
		Content:        req.Content,
		FileKey:        req.FileKey,
		FileURL:        req.FileURL,
		AvailableFrom:  from,
		AvailableUntil: until,
		IsActive:       true,
	}

	if err := s.menus.CreateSuperseding(ctx, menu); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newError(CodeOverlappingMenu, "Restaurant already has an active menu")
		}
		s.logger.Error("Failed to create menu", zap.String("restaurant_id", req.RestaurantID.String()), zap.Error(err))
		return nil, internalError("Failed to create menu")
	}

	s.logger.Info("Menu created",
		zap.String("menu_id", menu.ID.String()),
		zap.String("restaurant_id", menu.RestaurantID.String()),
		zap.String("available_from", models.FormatDate(from)),
		zap.String("available_until", models.FormatDate(until)))
	return menu, nil
}

// AvailableMenus returns active menus of active restaurants covering date, earliest start first.
func (s *menuServiceImpl) AvailableMenus(ctx context.Context, date time.Time) ([]models.Menu, *ServiceError) {
	menus, err := s.menus.AvailableOn(ctx, models.DateOf(date))
	if err != nil {
		s.logger.Error("Failed to list available menus", zap.String("date", models.FormatDate(date)), zap.Error(err))
		return nil, internalError("Failed to list menus")
	}
	return menus, nil
}

func (s *menuServiceImpl) ListMenus(ctx context.Context, filter models.MenuFilter) ([]models.Menu, *ServiceError) {
	menus, err := s.menus.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list menus", zap.Error(err))
		return nil, internalError("Failed to list menus")
	}
	return menus, nil
}

// GetMenu returns the menu with its items. Inactive menus are hidden unless includeInactive.
func (s *menuServiceImpl) GetMenu(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Menu, *ServiceError) {
	menu, err := s.menus.FindWithItems(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeMenuNotFound, "Menu not found")
		}
		s.logger.Error("Failed to get menu", zap.String("menu_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to get menu")
	}
	if !menu.IsActive && !includeInactive {
		return nil, newError(CodeMenuNotFound, "Menu not found")
	}
	return menu, nil
}

func (s *menuServiceImpl) loadMenu(ctx context.Context, id uuid.UUID) (*models.Menu, *ServiceError) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeMenuNotFound, "Menu not found")
		}
		s.logger.Error("Failed to load menu", zap.String("menu_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to load menu")
	}
	return menu, nil
}

// UpdateMenu applies a partial update. Overlap with other menus is not re-checked.
func (s *menuServiceImpl) UpdateMenu(ctx context.Context, id uuid.UUID, req *models.UpdateMenuRequest) (*models.Menu, *ServiceError) {
	menu, svcErr := s.loadMenu(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Name != nil {
		menu.Name = *req.Name
	}
	if req.Description != nil {
		menu.Description = *req.Description
	}
	if req.Content != nil {
		menu.Content = *req.Content
	}
	if req.FileKey != nil {
		menu.FileKey = *req.FileKey
	}
	if req.FileURL != nil {
		menu.FileURL = *req.FileURL
	}
	if req.AvailableFrom != nil {
		from, err := models.ParseDate(*req.AvailableFrom)
		if err != nil {
			return nil, newError(CodeValidation, err.Error())
		}
		menu.AvailableFrom = from
	}
	if req.AvailableUntil != nil {
		until, err := models.ParseDate(*req.AvailableUntil)
		if err != nil {
			return nil, newError(CodeValidation, err.Error())
		}
		menu.AvailableUntil = until
	}
	if menu.AvailableFrom.After(menu.AvailableUntil) {
		return nil, newError(CodeInvalidRange, "Start date must be before end date")
	}
	if req.IsActive != nil {
		menu.IsActive = *req.IsActive
	}

	if err := s.menus.Update(ctx, menu); err != nil {
		if menu.IsActive && repository.IsUniqueViolation(err) {
			return nil, newError(CodeOverlappingMenu, "Restaurant already has an active menu")
		}
		s.logger.Error("Failed to update menu", zap.String("menu_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to update menu")
	}
	return menu, nil
}

// DeleteMenu deactivates the menu. Orders keep referencing it.
func (s *menuServiceImpl) DeleteMenu(ctx context.Context, id uuid.UUID) *ServiceError {
	menu, svcErr := s.loadMenu(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	menu.IsActive = false
	if err := s.menus.Update(ctx, menu); err != nil {
		s.logger.Error("Failed to delete menu", zap.String("menu_id", id.String()), zap.Error(err))
		return internalError("Failed to delete menu")
	}
	s.logger.Info("Menu deactivated", zap.String("menu_id", id.String()))
	return nil
}

func (s *menuServiceImpl) AddMenuItem(ctx context.Context, menuID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *ServiceError) {
	if !req.Price.IsPositive() {
		return nil, newError(CodeValidation, "Price must be greater than zero")
	}
	if _, svcErr := s.loadMenu(ctx, menuID); svcErr != nil {
		return nil, svcErr
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := &models.MenuItem{
		MenuID:       menuID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price.Round(2),
		DietaryInfo:  req.DietaryInfo,
		ImageURL:     req.ImageURL,
		IsAvailable:  available,
		DisplayOrder: req.DisplayOrder,
	}

	if err := s.menus.CreateItem(ctx, item); err != nil {
		s.logger.Error("Failed to create menu item", zap.String("menu_id", menuID.String()), zap.Error(err))
		return nil, internalError("Failed to create menu item")
	}
	return item, nil
}

func (s *menuServiceImpl) loadItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, *ServiceError) {
	item, err := s.menus.FindItemByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeMenuItemNotFound, "Menu item not found")
		}
		s.logger.Error("Failed to load menu item", zap.String("item_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to load menu item")
	}
	return item, nil
}

// UpdateMenuItem applies a partial update. Existing orders keep their price snapshots.
func (s *menuServiceImpl) UpdateMenuItem(ctx context.Context, id uuid.UUID, req *models.UpdateMenuItemRequest) (*models.MenuItem, *ServiceError) {
	item, svcErr := s.loadItem(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, newError(CodeValidation, "Price must be greater than zero")
		}
		item.Price = req.Price.Round(2)
	}
	if req.DietaryInfo != nil {
		item.DietaryInfo = *req.DietaryInfo
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}

	if err := s.menus.UpdateItem(ctx, item); err != nil {
		s.logger.Error("Failed to update menu item", zap.String("item_id", id.String()), zap.Error(err))
		return nil, internalError("Failed to update menu item")
	}
	return item, nil
}

// DeleteMenuItem marks the item unavailable.
func (s *menuServiceImpl) DeleteMenuItem(ctx context.Context, id uuid.UUID) *ServiceError {
	item, svcErr := s.loadItem(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	item.IsAvailable = false
	if err := s.menus.UpdateItem(ctx, item); err != nil {
		s.logger.Error("Failed to delete menu item", zap.String("item_id", id.String()), zap.Error(err))
		return internalError("Failed to delete menu item")
	}
	return nil
}

// PresignMenuUpload returns a presigned PUT target for a file attached to the menu.
func (s *menuServiceImpl) PresignMenuUpload(ctx context.Context, menuID uuid.UUID, req *models.UploadURLRequest) (*models.UploadURLResponse, *ServiceError) {
	if s.storage == nil {
		return nil, internalError("File uploads are not configured")
	}
	if !allowedUploadTypes[req.ContentType] {
		return nil, newErrorf(CodeValidation, "Unsupported content type %q", req.ContentType)
	}
	if _, svcErr := s.loadMenu(ctx, menuID); svcErr != nil {
		return nil, svcErr
	}

	key := fmt.Sprintf("menus/%s/%s-%s", menuID, uuid.NewString(), sanitizeFileName(req.FileName))
	url, headers, expiresIn, err := s.storage.PresignPut(ctx, key, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to presign upload", zap.String("menu_id", menuID.String()), zap.Error(err))
		return nil, internalError("Failed to create upload URL")
	}

	return &models.UploadURLResponse{
		UploadURL: url,
		Key:       key,
		Headers:   headers,
		ExpiresIn: expiresIn,
	}, nil
}

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
