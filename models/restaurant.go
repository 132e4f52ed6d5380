package models

import (
	"time"

	"github.com/google/uuid"
)

// Restaurant is a meal provider. Deactivated rather than deleted once referenced.
type Restaurant struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	ContactName string    `gorm:"type:varchar(200)" json:"contact_name"`
	PhoneNumber string    `gorm:"type:varchar(32)" json:"phone_number"`
	Email       string    `gorm:"type:varchar(255)" json:"email"`
	Address     string    `gorm:"type:text" json:"address"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AvailabilityEntry marks whether a restaurant takes orders on a weekday (0=Mon .. 6=Sun).
type AvailabilityEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_restaurant_weekday,priority:1" json:"restaurant_id"`
	Weekday      int       `gorm:"not null;uniqueIndex:uq_restaurant_weekday,priority:2" json:"weekday"`
	IsAvailable  bool      `gorm:"not null" json:"is_available"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AvailabilityEntry) TableName() string { return "restaurant_availability" }

// WeekdayNames maps Monday-based weekday indexes to names.
var WeekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DefaultWeekdays is used when a restaurant is created without an explicit schedule.
var DefaultWeekdays = []int{0, 1, 2, 3, 4}

// CreateRestaurantRequest is the payload for creating a restaurant.
type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	ContactName string `json:"contact_name" binding:"max=200"`
	PhoneNumber string `json:"phone_number" binding:"max=32"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	// Nil means Monday to Friday.
	Weekdays []int `json:"weekdays" binding:"omitempty,dive,weekday"`
}

// UpdateRestaurantRequest is the payload for a partial restaurant update.
type UpdateRestaurantRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=200"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=32"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Address     *string `json:"address"`
	IsActive    *bool   `json:"is_active"`
}

// SetAvailabilityRequest replaces a restaurant's weekly schedule.
type SetAvailabilityRequest struct {
	Weekdays []int `json:"weekdays" binding:"dive,weekday"`
}

// DayAvailability is one row of the weekly availability view.
type DayAvailability struct {
	Weekday     int    `json:"weekday"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"is_available"`
}
