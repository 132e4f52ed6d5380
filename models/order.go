package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderStatusPending          = "pending"
	OrderStatusOrdered          = "ordered"
	OrderStatusConfirmed        = "confirmed"
	OrderStatusSentToRestaurant = "sent_to_restaurant"
	OrderStatusCompleted        = "completed"
	OrderStatusCancelled        = "cancelled"
)

// ValidOrderStatuses lists every status an admin may set, in lifecycle order.
var ValidOrderStatuses = []string{
	OrderStatusPending,
	OrderStatusOrdered,
	OrderStatusConfirmed,
	OrderStatusSentToRestaurant,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValidOrderStatus reports whether status is a known lifecycle state.
func IsValidOrderStatus(status string) bool {
	for _, s := range ValidOrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether status ends the order lifecycle.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusCompleted || status == OrderStatusCancelled
}

// Order is a user's meal for one calendar day. (user_id, order_date) is unique.
type Order struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_user_order_date,priority:1" json:"user_id"`
	MenuID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_id"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	OrderDate    time.Time       `gorm:"type:date;not null;uniqueIndex:uq_user_order_date,priority:2;index" json:"order_date"`
	Status       string          `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total_amount"`
	OrderText    string          `gorm:"type:text" json:"order_text,omitempty"`
	Notes        string          `gorm:"type:text" json:"notes,omitempty"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsFreeform reports whether the order is a free-text order without line items.
func (o *Order) IsFreeform() bool {
	return o.OrderText != ""
}

// OrderItem is a line of a structured order. Price is a snapshot taken at order time.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null;index" json:"menu_item_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// Subtotal is price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemRequest is one requested line of a structured order.
type OrderItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1,max=100"`
	Notes      string    `json:"notes" binding:"max=500"`
}

// CreateOrderRequest is the payload for a structured order.
type CreateOrderRequest struct {
	MenuID    uuid.UUID          `json:"menu_id" binding:"required"`
	OrderDate string             `json:"order_date" binding:"required,datetime=2006-01-02"`
	Items     []OrderItemRequest `json:"items" binding:"dive"`
	Notes     string             `json:"notes" binding:"max=1000"`
}

// CreateFreeformOrderRequest is the payload for a free-text order.
type CreateFreeformOrderRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	OrderDate    string    `json:"order_date" binding:"required,datetime=2006-01-02"`
	OrderText    string    `json:"order_text" binding:"required,min=1,max=2000"`
	Notes        string    `json:"notes" binding:"max=1000"`
}

// UpdateOrderRequest replaces items and/or notes of a pending structured order.
type UpdateOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"dive"`
	Notes *string            `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateFreeformOrderRequest replaces the text and restaurant of a pending freeform order.
type UpdateFreeformOrderRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id" binding:"required"`
	OrderText    string    `json:"order_text" binding:"required,min=1,max=2000"`
	Notes        *string   `json:"notes" binding:"omitempty,max=1000"`
}

// UpdateOrderStatusRequest is the admin status override payload.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID        *uuid.UUID
	RestaurantID  *uuid.UUID
	Status        string
	Statuses      []string
	ExcludeStatus string
	DateFrom      *time.Time
	DateTo        *time.Time
}

// DayOrder is one day of a user's weekly calendar.
type DayOrder struct {
	Date     string `json:"date"`
	Weekday  int    `json:"weekday"`
	HasOrder bool   `json:"has_order"`
	Order    *Order `json:"order"`
}

// OrderEvent is published when an order changes.
type OrderEvent struct {
	EventType    string    `json:"event_type"`
	OrderID      string    `json:"order_id"`
	UserID       string    `json:"user_id"`
	RestaurantID string    `json:"restaurant_id"`
	OrderDate    string    `json:"order_date"`
	Status       string    `json:"status"`
	TotalAmount  string    `json:"total_amount"`
	Timestamp    time.Time `json:"timestamp"`
}

// Order event types.
const (
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderCancelled     = "order_cancelled"
	EventOrderStatusChanged = "order_status_changed"
)
