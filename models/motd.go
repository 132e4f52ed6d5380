package models

import (
	"time"

	"github.com/google/uuid"
)

// MotdOption is a restaurant's quick "meal of the day" text for one weekday.
type MotdOption struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_restaurant_motd_weekday,priority:1" json:"restaurant_id"`
	Weekday      int       `gorm:"not null;uniqueIndex:uq_restaurant_motd_weekday,priority:2;index" json:"weekday"`
	OptionText   string    `gorm:"type:text;not null" json:"option_text"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MotdOption) TableName() string { return "motd_options" }

// MotdRow is one active restaurant in the weekday view. MotdOption is empty when none is set.
type MotdRow struct {
	RestaurantID   uuid.UUID `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Weekday        int       `json:"weekday"`
	MotdOption     string    `json:"motd_option"`
}

// SetMotdRequest sets or, with blank text, clears a restaurant's option for a weekday.
type SetMotdRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	Weekday      *int      `json:"weekday" binding:"required"`
	MotdOption   string    `json:"motd_option" binding:"max=1000"`
}
