package repository

import (
	"context"
	"time"

	"meal-service/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RestaurantRepository defines data-access operations for restaurants and their weekly availability.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant, weekdays []int) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Restaurant, error)
	FindAll(ctx context.Context, activeOnly bool) ([]models.Restaurant, error)
	Update(ctx context.Context, restaurant *models.Restaurant) error
	CountActive(ctx context.Context) (int64, error)

	FindAvailability(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error)
	FindAvailabilityForWeekday(ctx context.Context, restaurantID uuid.UUID, weekday int) (*models.AvailabilityEntry, error)
	UpsertAvailability(ctx context.Context, restaurantID uuid.UUID, weekdays []int) error
}

// GormRestaurantRepository implements RestaurantRepository using GORM.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewGormRestaurantRepository creates a new GormRestaurantRepository.
func NewGormRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// Create inserts the restaurant and its seven availability rows in one transaction.
func (r *GormRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant, weekdays []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}
		return upsertAvailability(tx, restaurant.ID, weekdays)
	})
}

func (r *GormRestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *GormRestaurantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if len(ids) == 0 {
		return restaurants, nil
	}
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *GormRestaurantRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("name ASC").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *GormRestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Save(restaurant).Error
}

func (r *GormRestaurantRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *GormRestaurantRepository) FindAvailability(ctx context.Context, restaurantID uuid.UUID) ([]models.AvailabilityEntry, error) {
	var entries []models.AvailabilityEntry
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("weekday ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *GormRestaurantRepository) FindAvailabilityForWeekday(ctx context.Context, restaurantID uuid.UUID, weekday int) (*models.AvailabilityEntry, error) {
	var entry models.AvailabilityEntry
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND weekday = ?", restaurantID, weekday).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpsertAvailability writes all seven weekday rows so that exactly the given weekdays are available.
func (r *GormRestaurantRepository) UpsertAvailability(ctx context.Context, restaurantID uuid.UUID, weekdays []int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertAvailability(tx, restaurantID, weekdays)
	})
}

func upsertAvailability(tx *gorm.DB, restaurantID uuid.UUID, weekdays []int) error {
	open := make(map[int]bool, len(weekdays))
	for _, d := range weekdays {
		open[d] = true
	}

	now := time.Now().UTC()
	entries := make([]models.AvailabilityEntry, 0, 7)
	for d := 0; d < 7; d++ {
		entries = append(entries, models.AvailabilityEntry{
			RestaurantID: restaurantID,
			Weekday:      d,
			IsAvailable:  open[d],
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "weekday"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "updated_at"}),
	}).Create(&entries).Error
}
