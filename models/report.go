package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardStats is the admin landing page payload.
type DashboardStats struct {
	TotalUsers                 int64            `json:"total_users"`
	TotalRestaurants           int64            `json:"total_restaurants"`
	TotalMenus                 int64            `json:"total_menus"`
	OrdersThisWeek             int64            `json:"orders_this_week"`
	OrdersToday                int64            `json:"orders_today"`
	UsersWithoutOrdersTomorrow int              `json:"users_without_orders_tomorrow"`
	StatusBreakdown            map[string]int64 `json:"status_breakdown"`
	RecentOrders               []Order          `json:"recent_orders"`
}

// RestaurantTotals aggregates orders of one restaurant.
type RestaurantTotals struct {
	RestaurantID   uuid.UUID       `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	OrderCount     int             `json:"order_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// DateSummary aggregates orders of one date.
type DateSummary struct {
	Date         string             `json:"date"`
	TotalOrders  int                `json:"total_orders"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	ByRestaurant []RestaurantTotals `json:"by_restaurant"`
}

// OrderReport is the admin revenue report for a date range.
type OrderReport struct {
	DateFrom          string             `json:"date_from"`
	DateTo            string             `json:"date_to"`
	TotalOrders       int                `json:"total_orders"`
	TotalRevenue      decimal.Decimal    `json:"total_revenue"`
	AverageOrderValue decimal.Decimal    `json:"average_order_value"`
	ByRestaurant      []RestaurantTotals `json:"by_restaurant"`
	Orders            []Order            `json:"-"`
}
