package repository

import (
	"context"

	"meal-service/models"

	"gorm.io/gorm"
)

// DispatchRepository stores reminder and restaurant summary records.
type DispatchRepository interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	UpdateReminder(ctx context.Context, reminder *models.Reminder) error
	ListReminders(ctx context.Context, page, limit int) ([]models.Reminder, int64, error)
	CreateSummary(ctx context.Context, summary *models.RestaurantOrderSummary) error
}

// GormDispatchRepository implements DispatchRepository using GORM.
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewGormDispatchRepository creates a new GormDispatchRepository.
func NewGormDispatchRepository(db *gorm.DB) DispatchRepository {
	return &GormDispatchRepository{db: db}
}

func (r *GormDispatchRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

func (r *GormDispatchRepository) UpdateReminder(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Save(reminder).Error
}

func (r *GormDispatchRepository) ListReminders(ctx context.Context, page, limit int) ([]models.Reminder, int64, error) {
	var reminders []models.Reminder
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Reminder{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reminders).Error; err != nil {
		return nil, 0, err
	}
	return reminders, total, nil
}

func (r *GormDispatchRepository) CreateSummary(ctx context.Context, summary *models.RestaurantOrderSummary) error {
	return r.db.WithContext(ctx).Create(summary).Error
}
