package services

import (
	"context"
	"strings"
	"time"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxItemQuantity = 100

// OrderService implements the order placement workflow.
type OrderService interface {
	CreateStructuredOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	CreateFreeformOrder(ctx context.Context, userID uuid.UUID, req *models.CreateFreeformOrderRequest) (*models.Order, *ServiceError)
	UpdateOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError)
	UpdateFreeformOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateFreeformOrderRequest) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError)
	AdminSetStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError)
	MissingOrderDays(ctx context.Context, userID uuid.UUID, start time.Time, daysAhead int) ([]time.Time, *ServiceError)
	WeeklyCalendar(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.DayOrder, *ServiceError)
	ListUserOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *ServiceError)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orders       repository.OrderRepository
	menus        repository.MenuRepository
	availability AvailabilityService
	events       EventPublisher
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(
	orders repository.OrderRepository,
	menus repository.MenuRepository,
	availability AvailabilityService,
	events EventPublisher,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:       orders,
		menus:        menus,
		availability: availability,
		events:       events,
		logger:       logger,
	}
}

func parseOrderDate(s string) (time.Time, *ServiceError) {
	date, err := models.ParseDate(s)
	if err != nil {
		return time.Time{}, newError(CodeValidation, err.Error())
	}
	return date, nil
}

func checkWeekday(date time.Time) *ServiceError {
	if models.IsWeekend(date) {
		return newError(CodeWeekendOrder, "Orders can only be placed Monday to Friday")
	}
	return nil
}

func (s *orderServiceImpl) checkRestaurantOpen(ctx context.Context, restaurantID uuid.UUID, date time.Time) *ServiceError {
	open, svcErr := s.availability.IsAvailable(ctx, restaurantID, models.Weekday(date))
	if svcErr != nil {
		return svcErr
	}
	if !open {
		return newError(CodeRestaurantClosed, "Restaurant is not available on the selected day")
	}
	return nil
}

func (s *orderServiceImpl) checkNoOrderOn(ctx context.Context, userID uuid.UUID, date time.Time) *ServiceError {
	_, err := s.orders.FindByUserAndDate(ctx, userID, date)
	if err == nil {
		return newError(CodeDuplicateOrderDate, "You already have an order for this date")
	}
	if repository.IsNotFound(err) {
		return nil
	}
	s.logger.Error("Failed to check existing order",
		zap.String("user_id", userID.String()),
		zap.String("order_date", models.FormatDate(date)),
		zap.Error(err))
	return internalError("Failed to create order")
}

// buildItems validates requested lines against menuID and snapshots current prices.
func (s *orderServiceImpl) buildItems(ctx context.Context, menuID uuid.UUID, reqs []models.OrderItemRequest) ([]models.OrderItem, *ServiceError) {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		if r.Quantity < 1 || r.Quantity > maxItemQuantity {
			return nil, newErrorf(CodeValidation, "Quantity must be between 1 and %d", maxItemQuantity)
		}
		ids = append(ids, r.MenuItemID)
	}

	found, err := s.menus.FindItemsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load menu items", zap.String("menu_id", menuID.String()), zap.Error(err))
		return nil, internalError("Failed to validate order items")
	}
	byID := make(map[uuid.UUID]models.MenuItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]models.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		menuItem, ok := byID[r.MenuItemID]
		if !ok {
			return nil, newErrorf(CodeItemInvalid, "Menu item %s not found", r.MenuItemID)
		}
		if menuItem.MenuID != menuID {
			return nil, newErrorf(CodeItemInvalid, "Menu item %s does not belong to this menu", menuItem.Name)
		}
		if !menuItem.IsAvailable {
			return nil, newErrorf(CodeItemInvalid, "Menu item %s is not available", menuItem.Name)
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Quantity:   r.Quantity,
			Price:      menuItem.Price,
			Notes:      r.Notes,
		})
	}

	if len(items) == 0 {
		return nil, newError(CodeEmptyOrder, "Order must contain at least one item")
	}
	return items, nil
}

func orderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total.Round(2)
}

func (s *orderServiceImpl) ownedOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByIDAndUserID(ctx, orderID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeOrderNotFound, "Order not found")
		}
		s.logger.Error("Failed to load order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to load order")
	}
	return order, nil
}

func (s *orderServiceImpl) pendingOwnedOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.ownedOrder(ctx, orderID, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if order.Status != models.OrderStatusPending {
		return nil, newError(CodeNotPending, "Can only update pending orders")
	}
	return order, nil
}

func (s *orderServiceImpl) insertOrder(ctx context.Context, order *models.Order) *ServiceError {
	if err := s.orders.CreateWithItems(ctx, order); err != nil {
		if repository.IsUniqueViolation(err) {
			return newError(CodeDuplicateOrderDate, "You already have an order for this date")
		}
		s.logger.Error("Failed to create order",
			zap.String("user_id", order.UserID.String()),
			zap.String("order_date", models.FormatDate(order.OrderDate)),
			zap.Error(err))
		return internalError("Failed to create order")
	}
	return nil
}

// CreateStructuredOrder places an itemized order. Checks run fail-fast in a fixed order.
func (s *orderServiceImpl) CreateStructuredOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	date, svcErr := parseOrderDate(req.OrderDate)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := checkWeekday(date); svcErr != nil {
		return nil, svcErr
	}

	menu, err := s.menus.FindByID(ctx, req.MenuID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeMenuNotFound, "Menu not found")
		}
		s.logger.Error("Failed to load menu", zap.String("menu_id", req.MenuID.String()), zap.Error(err))
		return nil, internalError("Failed to create order")
	}
	if !menu.IsActive {
		return nil, newError(CodeMenuInactive, "Menu is not active")
	}
	if !menu.Covers(date) {
		return nil, newError(CodeDateOutOfRange, "Menu is not available for the selected date")
	}

	if svcErr := s.checkRestaurantOpen(ctx, menu.RestaurantID, date); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkNoOrderOn(ctx, userID, date); svcErr != nil {
		return nil, svcErr
	}

	items, svcErr := s.buildItems(ctx, menu.ID, req.Items)
	if svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		UserID:       userID,
		MenuID:       menu.ID,
		RestaurantID: menu.RestaurantID,
		OrderDate:    date,
		Status:       models.OrderStatusPending,
		TotalAmount:  orderTotal(items),
		Notes:        req.Notes,
		Items:        items,
	}
	if svcErr := s.insertOrder(ctx, order); svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("order_date", req.OrderDate),
		zap.String("total", order.TotalAmount.StringFixed(2)))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderCreated, order)
	return order, nil
}

// CreateFreeformOrder places a free-text order against the restaurant's active menu for the date.
func (s *orderServiceImpl) CreateFreeformOrder(ctx context.Context, userID uuid.UUID, req *models.CreateFreeformOrderRequest) (*models.Order, *ServiceError) {
	date, svcErr := parseOrderDate(req.OrderDate)
	if svcErr != nil {
		return nil, svcErr
	}
	text := strings.TrimSpace(req.OrderText)
	if text == "" {
		return nil, newError(CodeValidation, "Order text is required")
	}
	if svcErr := checkWeekday(date); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkRestaurantOpen(ctx, req.RestaurantID, date); svcErr != nil {
		return nil, svcErr
	}

	menu, svcErr := s.activeMenuFor(ctx, req.RestaurantID, date)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkNoOrderOn(ctx, userID, date); svcErr != nil {
		return nil, svcErr
	}

	order := &models.Order{
		UserID:       userID,
		MenuID:       menu.ID,
		RestaurantID: req.RestaurantID,
		OrderDate:    date,
		Status:       models.OrderStatusPending,
		TotalAmount:  decimal.Zero,
		OrderText:    text,
		Notes:        req.Notes,
	}
	if svcErr := s.insertOrder(ctx, order); svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Freeform order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("order_date", req.OrderDate))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderCreated, order)
	return order, nil
}

func (s *orderServiceImpl) activeMenuFor(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*models.Menu, *ServiceError) {
	menu, err := s.menus.FindActiveForRestaurantOnDate(ctx, restaurantID, date)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeMenuNotFound, "Menu not found for this restaurant/date")
		}
		s.logger.Error("Failed to find active menu",
			zap.String("restaurant_id", restaurantID.String()),
			zap.String("date", models.FormatDate(date)),
			zap.Error(err))
		return nil, internalError("Failed to find menu")
	}
	return menu, nil
}

// UpdateOrder replaces notes and, when given, all items of a pending structured order.
func (s *orderServiceImpl) UpdateOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *ServiceError) {
	order, svcErr := s.pendingOwnedOrder(ctx, orderID, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	// An empty list leaves the items unchanged.
	if len(req.Items) > 0 {
		if order.IsFreeform() {
			return nil, newError(CodeValidation, "Freeform orders cannot contain items")
		}
		items, svcErr := s.buildItems(ctx, order.MenuID, req.Items)
		if svcErr != nil {
			return nil, svcErr
		}
		order.TotalAmount = orderTotal(items)
		if err := s.orders.ReplaceItems(ctx, order, items); err != nil {
			s.logger.Error("Failed to replace order items", zap.String("order_id", orderID.String()), zap.Error(err))
			return nil, internalError("Failed to update order")
		}
	} else if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to update order")
	}

	s.logger.Info("Order updated", zap.String("order_id", orderID.String()), zap.String("user_id", userID.String()))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderUpdated, order)
	return order, nil
}

// UpdateFreeformOrder moves a pending order to another restaurant's free text, dropping any items.
func (s *orderServiceImpl) UpdateFreeformOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateFreeformOrderRequest) (*models.Order, *ServiceError) {
	text := strings.TrimSpace(req.OrderText)
	if text == "" {
		return nil, newError(CodeValidation, "Order text is required")
	}

	order, svcErr := s.pendingOwnedOrder(ctx, orderID, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if svcErr := checkWeekday(order.OrderDate); svcErr != nil {
		return nil, svcErr
	}
	if svcErr := s.checkRestaurantOpen(ctx, req.RestaurantID, order.OrderDate); svcErr != nil {
		return nil, svcErr
	}
	menu, svcErr := s.activeMenuFor(ctx, req.RestaurantID, order.OrderDate)
	if svcErr != nil {
		return nil, svcErr
	}

	order.RestaurantID = req.RestaurantID
	order.MenuID = menu.ID
	order.OrderText = text
	order.TotalAmount = decimal.Zero
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.orders.ReplaceItems(ctx, order, nil); err != nil {
		s.logger.Error("Failed to update freeform order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to update order")
	}

	s.logger.Info("Freeform order updated", zap.String("order_id", orderID.String()), zap.String("restaurant_id", req.RestaurantID.String()))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderUpdated, order)
	return order, nil
}

// CancelOrder cancels any non-terminal order owned by the user.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError) {
	order, svcErr := s.ownedOrder(ctx, orderID, userID)
	if svcErr != nil {
		return nil, svcErr
	}
	if models.IsTerminalStatus(order.Status) {
		return nil, newError(CodeAlreadyTerminal, "Cannot cancel completed or already cancelled orders")
	}

	order.Status = models.OrderStatusCancelled
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to cancel order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to cancel order")
	}

	s.logger.Info("Order cancelled", zap.String("order_id", orderID.String()), zap.String("user_id", userID.String()))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderCancelled, order)
	return order, nil
}

// AdminSetStatus overrides the status. Any known status may follow any other.
func (s *orderServiceImpl) AdminSetStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *ServiceError) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, newError(CodeOrderNotFound, "Order not found")
		}
		s.logger.Error("Failed to load order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to update order status")
	}
	if !models.IsValidOrderStatus(status) {
		return nil, newError(CodeInvalidStatus, "Invalid status. Must be one of: "+strings.Join(models.ValidOrderStatuses, ", "))
	}

	previous := order.Status
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, internalError("Failed to update order status")
	}

	s.logger.Info("Order status changed",
		zap.String("order_id", orderID.String()),
		zap.String("from", previous),
		zap.String("to", status))
	publishOrderEvent(ctx, s.events, s.logger, models.EventOrderStatusChanged, order)
	return order, nil
}

// MissingOrderDays lists dates in [start, start+daysAhead) with no order row of any status.
func (s *orderServiceImpl) MissingOrderDays(ctx context.Context, userID uuid.UUID, start time.Time, daysAhead int) ([]time.Time, *ServiceError) {
	missing := []time.Time{}
	if daysAhead <= 0 {
		return missing, nil
	}
	start = models.DateOf(start)
	end := models.AddDays(start, daysAhead-1)

	orders, err := s.orders.FindByUserBetween(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("Failed to load orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internalError("Failed to load orders")
	}

	ordered := make(map[string]bool, len(orders))
	for _, o := range orders {
		ordered[models.FormatDate(o.OrderDate)] = true
	}

	for i := 0; i < daysAhead; i++ {
		day := models.AddDays(start, i)
		if !ordered[models.FormatDate(day)] {
			missing = append(missing, day)
		}
	}
	return missing, nil
}

// WeeklyCalendar returns seven consecutive days from start with the user's order for each.
func (s *orderServiceImpl) WeeklyCalendar(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.DayOrder, *ServiceError) {
	start = models.DateOf(start)
	end := models.AddDays(start, 6)

	orders, err := s.orders.FindByUserBetween(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("Failed to load orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, internalError("Failed to load orders")
	}

	byDate := make(map[string]*models.Order, len(orders))
	for i := range orders {
		byDate[models.FormatDate(orders[i].OrderDate)] = &orders[i]
	}

	days := make([]models.DayOrder, 0, 7)
	for i := 0; i < 7; i++ {
		day := models.AddDays(start, i)
		key := models.FormatDate(day)
		order := byDate[key]
		days = append(days, models.DayOrder{
			Date:     key,
			Weekday:  models.Weekday(day),
			HasOrder: order != nil,
			Order:    order,
		})
	}
	return days, nil
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *ServiceError) {
	return s.ownedOrder(ctx, orderID, userID)
}
