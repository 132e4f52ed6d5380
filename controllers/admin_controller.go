package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"meal-service/models"
	"meal-service/reports"
	"meal-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	adminOrdersDefaultLimit = 50
	adminOrdersMaxLimit     = 200
	xlsxContentType         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AdminController serves the admin dashboard, order management, reports and dispatch.
type AdminController struct {
	reports  services.ReportService
	orders   services.OrderService
	dispatch services.DispatchService
	clock    services.Clock
	logger   *zap.Logger
}

func NewAdminController(reports services.ReportService, orders services.OrderService, dispatch services.DispatchService, clock services.Clock, logger *zap.Logger) *AdminController {
	return &AdminController{reports: reports, orders: orders, dispatch: dispatch, clock: clock, logger: logger}
}

func (ac *AdminController) Dashboard(ctx *gin.Context) {
	stats, svcErr := ac.reports.Dashboard(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// ListOrders handles GET /admin/orders?date_from=&date_to=&status=&restaurant_id=&user_id=.
func (ac *AdminController) ListOrders(ctx *gin.Context) {
	filter := models.OrderFilter{Status: ctx.Query("status")}
	var ok bool
	if filter.DateFrom, ok = dateQuery(ctx, "date_from"); !ok {
		return
	}
	if filter.DateTo, ok = dateQuery(ctx, "date_to"); !ok {
		return
	}
	if filter.RestaurantID, ok = uuidQuery(ctx, "restaurant_id"); !ok {
		return
	}
	if filter.UserID, ok = uuidQuery(ctx, "user_id"); !ok {
		return
	}
	page, limit := parsePaginationParams(ctx, adminOrdersDefaultLimit, adminOrdersMaxLimit)

	orders, total, svcErr := ac.reports.ListOrders(ctx.Request.Context(), filter, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "meta": paginationMeta(page, limit, total)})
}

// OrdersSummary handles GET /admin/orders/summary?date_from=&date_to= (both required).
func (ac *AdminController) OrdersSummary(ctx *gin.Context) {
	from, ok := dateQuery(ctx, "date_from")
	if !ok {
		return
	}
	to, ok := dateQuery(ctx, "date_to")
	if !ok {
		return
	}
	if from == nil || to == nil {
		badRequest(ctx, "date_from and date_to are required")
		return
	}

	summary, svcErr := ac.reports.OrdersSummary(ctx.Request.Context(), *from, *to)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"date_from": models.FormatDate(*from),
		"date_to":   models.FormatDate(*to),
		"summary":   summary,
	})
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status.
func (ac *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, svcErr := ac.orders.AdminSetStatus(ctx.Request.Context(), orderID, req.Status)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}

// SendToRestaurant handles POST /admin/orders/send-to-restaurant.
func (ac *AdminController) SendToRestaurant(ctx *gin.Context) {
	var req models.SendSummaryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		badRequest(ctx, "Invalid date, expected YYYY-MM-DD")
		return
	}

	message, svcErr := ac.dispatch.SendSummaryForRestaurant(ctx.Request.Context(), req.RestaurantID, date)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": message})
}

// UsersWithoutOrders handles GET /admin/users-without-orders?date=, defaulting to tomorrow.
func (ac *AdminController) UsersWithoutOrders(ctx *gin.Context) {
	date, ok := dateQuery(ctx, "date")
	if !ok {
		return
	}
	day := models.AddDays(ac.clock.Today(), 1)
	if date != nil {
		day = *date
	}

	users, svcErr := ac.dispatch.UsersWithoutOrders(ctx.Request.Context(), day)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"date": models.FormatDate(day), "users": users, "count": len(users)})
}

// OrderReport handles GET /admin/reports/orders, defaulting to the last 30 days.
func (ac *AdminController) OrderReport(ctx *gin.Context) {
	report, ok := ac.loadReport(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// ExportOrderReport handles GET /admin/reports/orders/export as an xlsx download.
func (ac *AdminController) ExportOrderReport(ctx *gin.Context) {
	report, ok := ac.loadReport(ctx)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := reports.WriteOrderReportXLSX(&buf, report); err != nil {
		ac.logger.Error("Failed to render order report", zap.Error(err))
		respondError(ctx, &services.ServiceError{StatusCode: http.StatusInternalServerError, Code: services.CodeInternal, Message: "Failed to export report"})
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.xlsx", report.DateFrom, report.DateTo)
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (ac *AdminController) loadReport(ctx *gin.Context) (*models.OrderReport, bool) {
	from, ok := dateQuery(ctx, "date_from")
	if !ok {
		return nil, false
	}
	to, ok := dateQuery(ctx, "date_to")
	if !ok {
		return nil, false
	}
	report, svcErr := ac.reports.OrderReport(ctx.Request.Context(), from, to)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return nil, false
	}
	return report, true
}

// ListReminders handles GET /admin/reminders.
func (ac *AdminController) ListReminders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx, adminOrdersDefaultLimit, adminOrdersMaxLimit)

	reminders, total, svcErr := ac.dispatch.ListReminders(ctx.Request.Context(), page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reminders": reminders, "meta": paginationMeta(page, limit, total)})
}

func uuidQuery(ctx *gin.Context, key string) (*uuid.UUID, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(ctx, "Invalid "+key)
		return nil, false
	}
	return &id, true
}

