package controllers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"meal-service/controllers"
	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupAdminRouter(reports services.ReportService, orders services.OrderService, dispatch services.DispatchService) *gin.Engine {
	r := withIdentity(gin.New(), models.RoleAdmin)
	ac := controllers.NewAdminController(reports, orders, dispatch, testClock, zap.NewNop())

	r.GET("/admin/dashboard", ac.Dashboard)
	r.GET("/admin/orders", ac.ListOrders)
	r.GET("/admin/orders/summary", ac.OrdersSummary)
	r.PUT("/admin/orders/:id/status", ac.UpdateOrderStatus)
	r.POST("/admin/orders/send-to-restaurant", ac.SendToRestaurant)
	r.GET("/admin/users-without-orders", ac.UsersWithoutOrders)
	r.GET("/admin/reports/orders", ac.OrderReport)
	r.GET("/admin/reports/orders/export", ac.ExportOrderReport)
	r.GET("/admin/reminders", ac.ListReminders)
	return r
}

func TestAdminController_Dashboard(t *testing.T) {
	reports := &mockReportService{
		dashboardFn: func(_ context.Context) (*models.DashboardStats, *services.ServiceError) {
			return &models.DashboardStats{TotalUsers: 4, OrdersToday: 2}, nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/dashboard", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(w)["total_users"])
}

func TestAdminController_ListOrders_FiltersAndLimits(t *testing.T) {
	restaurantID := uuid.New()
	reports := &mockReportService{
		listFn: func(_ context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *services.ServiceError) {
			assert.Equal(t, restaurantID, *filter.RestaurantID)
			assert.Equal(t, models.OrderStatusConfirmed, filter.Status)
			assert.Nil(t, filter.UserID)
			assert.Equal(t, 1, page)
			assert.Equal(t, 50, limit)
			return []models.Order{}, 0, nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/orders?status=confirmed&restaurant_id="+restaurantID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminController_ListOrders_LimitCappedAt200(t *testing.T) {
	reports := &mockReportService{
		listFn: func(_ context.Context, _ models.OrderFilter, _, limit int) ([]models.Order, int64, *services.ServiceError) {
			assert.Equal(t, 200, limit)
			return nil, 0, nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/orders?limit=1000", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminController_ListOrders_BadUserID(t *testing.T) {
	r := setupAdminRouter(&mockReportService{}, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/orders?user_id=nope", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminController_OrdersSummary_RequiresBothDates(t *testing.T) {
	r := setupAdminRouter(&mockReportService{}, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/orders/summary?date_from=2030-03-01", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "date_from and date_to are required", decode(w)["error"])
}

func TestAdminController_OrdersSummary(t *testing.T) {
	reports := &mockReportService{
		summaryFn: func(_ context.Context, from, to time.Time) ([]models.DateSummary, *services.ServiceError) {
			return []models.DateSummary{{Date: models.FormatDate(from), TotalOrders: 3, TotalAmount: decimal.NewFromInt(30)}}, nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/orders/summary?date_from=2030-03-01&date_to=2030-03-07", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(w)
	assert.Equal(t, "2030-03-07", resp["date_to"])
	assert.Len(t, resp["summary"], 1)
}

func TestAdminController_UpdateOrderStatus(t *testing.T) {
	orders := &mockOrderService{
		setStatusFn: func(_ context.Context, id uuid.UUID, status string) (*models.Order, *services.ServiceError) {
			if status == "teleported" {
				return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Code: services.CodeInvalidStatus, Message: "Invalid status"}
			}
			return &models.Order{ID: id, Status: status}, nil
		},
	}
	r := setupAdminRouter(&mockReportService{}, orders, &mockDispatchService{})
	path := "/admin/orders/" + uuid.NewString() + "/status"

	w := doJSON(r, http.MethodPut, path, map[string]string{"status": models.OrderStatusConfirmed})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, path, map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidStatus, decode(w)["code"])

	w = doJSON(r, http.MethodPut, path, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminController_SendToRestaurant(t *testing.T) {
	restaurantID := uuid.New()
	dispatch := &mockDispatchService{
		sendOneFn: func(_ context.Context, id uuid.UUID, date time.Time) (string, *services.ServiceError) {
			assert.Equal(t, restaurantID, id)
			if models.FormatDate(date) == "2030-03-16" {
				return "", &services.ServiceError{StatusCode: http.StatusBadRequest, Code: services.CodeNoOrders, Message: "No orders found for this date"}
			}
			return "Summary sent successfully", nil
		},
	}
	r := setupAdminRouter(&mockReportService{}, &mockOrderService{}, dispatch)

	w := doJSON(r, http.MethodPost, "/admin/orders/send-to-restaurant", map[string]interface{}{"restaurant_id": restaurantID, "date": "2030-03-14"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Summary sent successfully", decode(w)["message"])

	w = doJSON(r, http.MethodPost, "/admin/orders/send-to-restaurant", map[string]interface{}{"restaurant_id": restaurantID, "date": "2030-03-16"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeNoOrders, decode(w)["code"])

	w = doJSON(r, http.MethodPost, "/admin/orders/send-to-restaurant", map[string]interface{}{"restaurant_id": restaurantID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminController_UsersWithoutOrders_DefaultsToTomorrow(t *testing.T) {
	dispatch := &mockDispatchService{
		withoutOrdersFn: func(_ context.Context, date time.Time) ([]models.User, *services.ServiceError) {
			assert.Equal(t, "2030-03-14", models.FormatDate(date))
			return []models.User{{ID: uuid.New(), Email: "ada@example.com"}}, nil
		},
	}
	r := setupAdminRouter(&mockReportService{}, &mockOrderService{}, dispatch)

	w := doJSON(r, http.MethodGet, "/admin/users-without-orders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(w)
	assert.Equal(t, "2030-03-14", resp["date"])
	assert.Equal(t, float64(1), resp["count"])
}

func sampleReport() *models.OrderReport {
	return &models.OrderReport{
		DateFrom:          "2030-02-11",
		DateTo:            "2030-03-13",
		TotalOrders:       1,
		TotalRevenue:      decimal.RequireFromString("12.50"),
		AverageOrderValue: decimal.RequireFromString("12.50"),
		Orders:            []models.Order{{ID: uuid.New(), Status: models.OrderStatusCompleted, TotalAmount: decimal.RequireFromString("12.50")}},
	}
}

func TestAdminController_OrderReport(t *testing.T) {
	reports := &mockReportService{
		reportFn: func(_ context.Context, from, to *time.Time) (*models.OrderReport, *services.ServiceError) {
			assert.Nil(t, from)
			assert.Nil(t, to)
			return sampleReport(), nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/reports/orders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(w)
	assert.Equal(t, "12.5", resp["total_revenue"])
	assert.Nil(t, resp["orders"])
}

func TestAdminController_ExportOrderReport(t *testing.T) {
	reports := &mockReportService{
		reportFn: func(_ context.Context, _, _ *time.Time) (*models.OrderReport, *services.ServiceError) {
			return sampleReport(), nil
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/reports/orders/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "orders_2030-02-11_2030-03-13.xlsx"))
	// xlsx files are zip archives
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestAdminController_OrderReport_InvalidRange(t *testing.T) {
	reports := &mockReportService{
		reportFn: func(_ context.Context, _, _ *time.Time) (*models.OrderReport, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: http.StatusBadRequest, Code: services.CodeInvalidRange, Message: "date_from must not be after date_to"}
		},
	}
	r := setupAdminRouter(reports, &mockOrderService{}, &mockDispatchService{})

	w := doJSON(r, http.MethodGet, "/admin/reports/orders?date_from=2030-03-10&date_to=2030-03-01", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, services.CodeInvalidRange, decode(w)["code"])
}

func TestAdminController_ListReminders(t *testing.T) {
	dispatch := &mockDispatchService{
		listRemindersFn: func(_ context.Context, page, limit int) ([]models.Reminder, int64, *services.ServiceError) {
			return []models.Reminder{{ID: uuid.New(), Status: models.ReminderStatusSent}}, 1, nil
		},
	}
	r := setupAdminRouter(&mockReportService{}, &mockOrderService{}, dispatch)

	w := doJSON(r, http.MethodGet, "/admin/reminders", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(w)["reminders"], 1)
}
