package repository

import (
	"context"
	"time"

	"meal-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines data-access operations for orders and their items.
type OrderRepository interface {
	CreateWithItems(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.Order, error)
	FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Order, error)
	ReplaceItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	Update(ctx context.Context, order *models.Order) error
	FindAll(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, error)
	FindByFilter(ctx context.Context, filter models.OrderFilter) ([]models.Order, error)
	CountByStatus(ctx context.Context, filter models.OrderFilter) (map[string]int64, error)
	Count(ctx context.Context, filter models.OrderFilter) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
	UserIDsWithOrderOn(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// CreateWithItems inserts the order and its items atomically.
func (r *GormOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := order.Items
		order.Items = nil
		if err := tx.Create(order).Error; err != nil {
			order.Items = items
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				order.Items = items
				return err
			}
		}
		order.Items = items
		return nil
	})
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_date = ?", userID, date).
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUserBetween returns the user's orders with order_date in [from, to].
func (r *GormOrderRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND order_date >= ? AND order_date <= ?", userID, from, to).
		Order("order_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ReplaceItems swaps the order's items for items and saves the order in one transaction.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		order.Items = items
		return nil
	})
}

func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func applyOrderFilter(query *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.RestaurantID != nil {
		query = query.Where("restaurant_id = ?", *filter.RestaurantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.ExcludeStatus != "" {
		query = query.Where("status <> ?", filter.ExcludeStatus)
	}
	if filter.DateFrom != nil {
		query = query.Where("order_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("order_date <= ?", *filter.DateTo)
	}
	return query
}

// FindAll returns a page of orders matching filter, newest order date first.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.Order{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("order_date DESC, created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) FindByFilter(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.Order{}), filter)
	if err := query.
		Preload("Items").
		Order("order_date ASC, created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context, filter models.OrderFilter) (map[string]int64, error) {
	var rows []statusCount
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.Order{}), filter)
	if err := query.
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *GormOrderRepository) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	var count int64
	err := applyOrderFilter(r.db.WithContext(ctx).Model(&models.Order{}), filter).Count(&count).Error
	return count, err
}

func (r *GormOrderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UserIDsWithOrderOn returns users holding an order of any status on date.
func (r *GormOrderRepository) UserIDsWithOrderOn(ctx context.Context, date time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_date = ?", date).
		Distinct().
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
