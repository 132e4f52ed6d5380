package repository

import (
	"context"
	"time"

	"meal-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MotdRepository stores per-weekday MOTD options.
type MotdRepository interface {
	FindByWeekday(ctx context.Context, weekday int) ([]models.MotdOption, error)
	Upsert(ctx context.Context, option *models.MotdOption) error
	Delete(ctx context.Context, restaurantID uuid.UUID, weekday int) error
}

type GormMotdRepository struct {
	db *gorm.DB
}

func NewGormMotdRepository(db *gorm.DB) MotdRepository {
	return &GormMotdRepository{db: db}
}

func (r *GormMotdRepository) FindByWeekday(ctx context.Context, weekday int) ([]models.MotdOption, error) {
	var options []models.MotdOption
	if err := r.db.WithContext(ctx).
		Where("weekday = ?", weekday).
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

// Upsert replaces the text on the (restaurant_id, weekday) pair.
func (r *GormMotdRepository) Upsert(ctx context.Context, option *models.MotdOption) error {
	now := time.Now().UTC()
	option.CreatedAt = now
	option.UpdatedAt = now
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_text", "updated_at"}),
	}).Create(option).Error
}

func (r *GormMotdRepository) Delete(ctx context.Context, restaurantID uuid.UUID, weekday int) error {
	return r.db.WithContext(ctx).
		Where("restaurant_id = ? AND weekday = ?", restaurantID, weekday).
		Delete(&models.MotdOption{}).Error
}
