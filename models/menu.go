package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Menu is a restaurant's offer for an inclusive date range.
type Menu struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RestaurantID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name           string     `gorm:"type:varchar(200);not null" json:"name"`
	Description    string     `gorm:"type:text" json:"description"`
	Content        string     `gorm:"type:text" json:"content,omitempty"`
	FileKey        string     `gorm:"type:varchar(512)" json:"file_key,omitempty"`
	FileURL        string     `gorm:"type:varchar(1024)" json:"file_url,omitempty"`
	AvailableFrom  time.Time  `gorm:"type:date;not null;index" json:"available_from"`
	AvailableUntil time.Time  `gorm:"type:date;not null" json:"available_until"`
	IsActive       bool       `gorm:"not null;default:true;index" json:"is_active"`
	Items          []MenuItem `gorm:"foreignKey:MenuID" json:"items,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Covers reports whether date falls inside the menu's validity range.
func (m *Menu) Covers(date time.Time) bool {
	return !date.Before(m.AvailableFrom) && !date.After(m.AvailableUntil)
}

// MenuItem is a priced dish on a menu.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MenuID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_id"`
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DietaryInfo  string          `gorm:"type:varchar(255)" json:"dietary_info"`
	ImageURL     string          `gorm:"type:varchar(1024)" json:"image_url"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	DisplayOrder int             `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateMenuRequest is the payload for creating a menu.
type CreateMenuRequest struct {
	RestaurantID   uuid.UUID `json:"restaurant_id" binding:"required"`
	Name           string    `json:"name" binding:"required,min=1,max=200"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	FileKey        string    `json:"file_key" binding:"max=512"`
	FileURL        string    `json:"file_url" binding:"omitempty,url"`
	AvailableFrom  string    `json:"available_from" binding:"required,datetime=2006-01-02"`
	AvailableUntil string    `json:"available_until" binding:"required,datetime=2006-01-02"`
}

// UpdateMenuRequest is a partial menu update. Date ranges are not re-checked for overlap.
type UpdateMenuRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string `json:"description"`
	Content        *string `json:"content"`
	FileKey        *string `json:"file_key" binding:"omitempty,max=512"`
	FileURL        *string `json:"file_url" binding:"omitempty,url"`
	AvailableFrom  *string `json:"available_from" binding:"omitempty,datetime=2006-01-02"`
	AvailableUntil *string `json:"available_until" binding:"omitempty,datetime=2006-01-02"`
	IsActive       *bool   `json:"is_active"`
}

// MenuFilter narrows menu listings.
type MenuFilter struct {
	ActiveOnly   bool
	RestaurantID *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
}

// CreateMenuItemRequest is the payload for adding an item to a menu.
type CreateMenuItemRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DietaryInfo  string          `json:"dietary_info" binding:"max=255"`
	ImageURL     string          `json:"image_url" binding:"omitempty,url"`
	IsAvailable  *bool           `json:"is_available"`
	DisplayOrder int             `json:"display_order" binding:"gte=0"`
}

// UpdateMenuItemRequest is a partial menu item update.
type UpdateMenuItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	Price        *decimal.Decimal `json:"price"`
	DietaryInfo  *string          `json:"dietary_info" binding:"omitempty,max=255"`
	ImageURL     *string          `json:"image_url" binding:"omitempty,url"`
	IsAvailable  *bool            `json:"is_available"`
	DisplayOrder *int             `json:"display_order" binding:"omitempty,gte=0"`
}

// UploadURLRequest asks for a presigned upload target for a menu file or item image.
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse carries a presigned PUT target.
type UploadURLResponse struct {
	UploadURL string            `json:"upload_url"`
	Key       string            `json:"key"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresIn int64             `json:"expires_in"`
}
