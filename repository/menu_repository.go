package repository

import (
	"context"
	"time"

	"meal-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuRepository defines data-access operations for menus and menu items.
type MenuRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	FindWithItems(ctx context.Context, id uuid.UUID) (*models.Menu, error)
	FindActiveForRestaurantOnDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.Menu, error)
	FindOverlappingActive(ctx context.Context, restaurantID uuid.UUID, from, until time.Time) ([]models.Menu, error)
	CreateSuperseding(ctx context.Context, menu *models.Menu) error
	Update(ctx context.Context, menu *models.Menu) error
	AvailableOn(ctx context.Context, date time.Time) ([]models.Menu, error)
	FindAll(ctx context.Context, filter models.MenuFilter) ([]models.Menu, error)
	CountActive(ctx context.Context) (int64, error)

	CreateItem(ctx context.Context, item *models.MenuItem) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	FindItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	ItemsForMenu(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
}

// GormMenuRepository implements MenuRepository using GORM.
type GormMenuRepository struct {
	db *gorm.DB
}

// NewGormMenuRepository creates a new GormMenuRepository.
func NewGormMenuRepository(db *gorm.DB) MenuRepository {
	return &GormMenuRepository{db: db}
}

func (r *GormMenuRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).First(&menu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *GormMenuRepository) FindWithItems(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, name ASC")
		}).
		First(&menu, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindActiveForRestaurantOnDate returns the active menu of a restaurant covering date.
func (r *GormMenuRepository) FindActiveForRestaurantOnDate(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.Menu, error) {
	var menu models.Menu
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ? AND available_from <= ? AND available_until >= ?",
			restaurantID, true, date, date).
		Order("available_from DESC").
		First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// FindOverlappingActive returns active menus of the restaurant whose range intersects [from, until].
func (r *GormMenuRepository) FindOverlappingActive(ctx context.Context, restaurantID uuid.UUID, from, until time.Time) ([]models.Menu, error) {
	var menus []models.Menu
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ? AND available_from <= ? AND available_until >= ?",
			restaurantID, true, until, from).
		Order("available_from ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

// CreateSuperseding deactivates every active menu of the restaurant and inserts menu as the new active one.
func (r *GormMenuRepository) CreateSuperseding(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Menu{}).
			Where("restaurant_id = ? AND is_active = ?", menu.RestaurantID, true).
			Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now().UTC()}).Error; err != nil {
			return err
		}
		menu.IsActive = true
		return tx.Omit("Items").Create(menu).Error
	})
}

func (r *GormMenuRepository) Update(ctx context.Context, menu *models.Menu) error {
	return r.db.WithContext(ctx).Omit("Items").Save(menu).Error
}

// AvailableOn returns active menus covering date whose restaurant is active.
func (r *GormMenuRepository) AvailableOn(ctx context.Context, date time.Time) ([]models.Menu, error) {
	var menus []models.Menu
	if err := r.db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = menus.restaurant_id AND restaurants.is_active = ?", true).
		Where("menus.is_active = ? AND menus.available_from <= ? AND menus.available_until >= ?", true, date, date).
		Order("menus.available_from ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *GormMenuRepository) FindAll(ctx context.Context, filter models.MenuFilter) ([]models.Menu, error) {
	var menus []models.Menu
	query := r.db.WithContext(ctx).Model(&models.Menu{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.RestaurantID != nil {
		query = query.Where("restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.DateFrom != nil {
		query = query.Where("available_until >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("available_from <= ?", *filter.DateTo)
	}
	if err := query.Order("available_from DESC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *GormMenuRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Menu{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *GormMenuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormMenuRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormMenuRepository) FindItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormMenuRepository) ItemsForMenu(ctx context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order("display_order ASC, name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormMenuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
