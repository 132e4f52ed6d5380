package controllers

import (
	"net/http"
	"strconv"
	"time"

	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
)

const defaultMissingDaysAhead = 7

// OrderController handles a user's own orders.
type OrderController struct {
	orders services.OrderService
	clock  services.Clock
}

func NewOrderController(orders services.OrderService, clock services.Clock) *OrderController {
	return &OrderController{orders: orders, clock: clock}
}

// ListOrders handles GET /orders?status=&date_from=&date_to=.
func (oc *OrderController) ListOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	filter := models.OrderFilter{UserID: &userID, Status: ctx.Query("status")}
	if filter.DateFrom, ok = dateQuery(ctx, "date_from"); !ok {
		return
	}
	if filter.DateTo, ok = dateQuery(ctx, "date_to"); !ok {
		return
	}
	page, limit := parsePaginationParams(ctx, defaultLimit, maxLimit)

	orders, total, svcErr := oc.orders.ListUserOrders(ctx.Request.Context(), filter, page, limit)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "meta": paginationMeta(page, limit, total)})
}

// CreateOrder handles POST /orders (structured, menu-based).
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, svcErr := oc.orders.CreateStructuredOrder(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

// CreateFreeformOrder handles POST /orders/simple.
func (oc *OrderController) CreateFreeformOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.CreateFreeformOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, svcErr := oc.orders.CreateFreeformOrder(ctx.Request.Context(), userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order": order})
}

func (oc *OrderController) GetOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orders.GetOrder(ctx.Request.Context(), orderID, userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrder handles PUT /orders/:id. Only pending orders can change.
func (oc *OrderController) UpdateOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, svcErr := oc.orders.UpdateOrder(ctx.Request.Context(), orderID, userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}

// UpdateFreeformOrder handles PUT /orders/:id/simple.
func (oc *OrderController) UpdateFreeformOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateFreeformOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	order, svcErr := oc.orders.UpdateFreeformOrder(ctx.Request.Context(), orderID, userID, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order updated successfully", "order": order})
}

// CancelOrder handles DELETE /orders/:id.
func (oc *OrderController) CancelOrder(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	orderID, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}

	order, svcErr := oc.orders.CancelOrder(ctx.Request.Context(), orderID, userID)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

// WeeklyOrders handles GET /orders/week?start=, defaulting to today.
func (oc *OrderController) WeeklyOrders(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	start, ok := oc.startDate(ctx)
	if !ok {
		return
	}

	days, svcErr := oc.orders.WeeklyCalendar(ctx.Request.Context(), userID, start)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"weekly_orders": days})
}

// MissingDays handles GET /orders/missing-days?days_ahead=&start=.
func (oc *OrderController) MissingDays(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	start, ok := oc.startDate(ctx)
	if !ok {
		return
	}
	daysAhead := defaultMissingDaysAhead
	if raw := ctx.Query("days_ahead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 366 {
			badRequest(ctx, "days_ahead must be between 0 and 366")
			return
		}
		daysAhead = n
	}

	dates, svcErr := oc.orders.MissingOrderDays(ctx.Request.Context(), userID, start, daysAhead)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, models.FormatDate(d))
	}
	ctx.JSON(http.StatusOK, gin.H{"missing_dates": formatted, "count": len(formatted)})
}

func (oc *OrderController) startDate(ctx *gin.Context) (start time.Time, ok bool) {
	d, ok := dateQuery(ctx, "start", "start_date")
	if !ok {
		return start, false
	}
	if d == nil {
		return oc.clock.Today(), true
	}
	return *d, true
}
