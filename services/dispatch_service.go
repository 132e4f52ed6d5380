package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-service/models"
	"meal-service/repository"
	"meal-service/sender"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const reminderTemplate = "meal_reminder"

// DispatchConfig configures reminder and summary dispatch.
type DispatchConfig struct {
	FrontendURL       string
	ReminderDaysAhead []int
}

// DispatchService sends reminders to users and order summaries to restaurants.
type DispatchService interface {
	SendDailyReminders(ctx context.Context) (models.DispatchResult, *ServiceError)
	SendRestaurantSummaries(ctx context.Context) (models.DispatchResult, *ServiceError)
	SendSummaryForRestaurant(ctx context.Context, restaurantID uuid.UUID, date time.Time) (string, *ServiceError)
	UsersWithoutOrders(ctx context.Context, date time.Time) ([]models.User, *ServiceError)
	ListReminders(ctx context.Context, page, limit int) ([]models.Reminder, int64, *ServiceError)
}

type dispatchServiceImpl struct {
	cfg         DispatchConfig
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	menus       repository.MenuRepository
	users       repository.UserRepository
	records     repository.DispatchRepository
	whatsapp    sender.WhatsAppSender
	email       sender.EmailSender
	clock       Clock
	logger      *zap.Logger
}

// DispatchDeps groups the collaborators of the dispatch service.
type DispatchDeps struct {
	Orders      repository.OrderRepository
	Restaurants repository.RestaurantRepository
	Menus       repository.MenuRepository
	Users       repository.UserRepository
	Records     repository.DispatchRepository
	WhatsApp    sender.WhatsAppSender
	Email       sender.EmailSender
	Clock       Clock
	Logger      *zap.Logger
}

// NewDispatchService creates a new DispatchService. Either sender may be nil.
func NewDispatchService(cfg DispatchConfig, deps DispatchDeps) DispatchService {
	return &dispatchServiceImpl{
		cfg:         cfg,
		orders:      deps.Orders,
		restaurants: deps.Restaurants,
		menus:       deps.Menus,
		users:       deps.Users,
		records:     deps.Records,
		whatsapp:    deps.WhatsApp,
		email:       deps.Email,
		clock:       deps.Clock,
		logger:      deps.Logger,
	}
}

// SendDailyReminders messages every active user missing an order on each configured upcoming date.
func (s *dispatchServiceImpl) SendDailyReminders(ctx context.Context) (models.DispatchResult, *ServiceError) {
	var result models.DispatchResult
	if s.whatsapp == nil {
		s.logger.Warn("WhatsApp sender not configured, skipping reminders")
		return result, nil
	}

	today := s.clock.Today()
	for _, ahead := range s.cfg.ReminderDaysAhead {
		date := models.AddDays(today, ahead)
		missing, svcErr := usersWithoutOrders(ctx, s.users, s.orders, date, s.logger)
		if svcErr != nil {
			return result, svcErr
		}
		for i := range missing {
			result.Add(s.remind(ctx, &missing[i], date))
		}
	}

	s.logger.Info("Daily reminders dispatched",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *dispatchServiceImpl) remind(ctx context.Context, user *models.User, date time.Time) models.DispatchResult {
	reminder := &models.Reminder{
		UserID:       user.ID,
		OrderDate:    date,
		ReminderType: models.ReminderTypeWhatsApp,
		Status:       models.ReminderStatusPending,
	}
	if err := s.records.CreateReminder(ctx, reminder); err != nil {
		s.logger.Error("Failed to record reminder", zap.String("user_id", user.ID.String()), zap.Error(err))
		return models.DispatchResult{Failed: 1}
	}

	var sendErr error
	if strings.TrimSpace(user.PhoneNumber) == "" {
		sendErr = errors.New("No phone number")
	} else {
		params := []string{
			user.FirstName,
			date.Format("Monday, January 02"),
			fmt.Sprintf("%s/order?date=%s", strings.TrimRight(s.cfg.FrontendURL, "/"), models.FormatDate(date)),
		}
		_, sendErr = s.whatsapp.SendTemplate(ctx, user.PhoneNumber, reminderTemplate, params)
	}

	result := models.DispatchResult{Sent: 1}
	if sendErr != nil {
		reminder.Status = models.ReminderStatusFailed
		reminder.FailureReason = sendErr.Error()
		result = models.DispatchResult{Failed: 1}
		s.logger.Warn("Reminder failed",
			zap.String("user_id", user.ID.String()),
			zap.String("order_date", models.FormatDate(date)),
			zap.Error(sendErr))
	} else {
		now := time.Now().UTC()
		reminder.Status = models.ReminderStatusSent
		reminder.SentAt = &now
	}

	if err := s.records.UpdateReminder(ctx, reminder); err != nil {
		s.logger.Error("Failed to update reminder", zap.String("reminder_id", reminder.ID.String()), zap.Error(err))
	}
	return result
}

// SendRestaurantSummaries e-mails each restaurant today's pending and confirmed orders.
func (s *dispatchServiceImpl) SendRestaurantSummaries(ctx context.Context) (models.DispatchResult, *ServiceError) {
	var result models.DispatchResult
	if s.email == nil {
		s.logger.Warn("Email sender not configured, skipping restaurant summaries")
		return result, nil
	}

	today := s.clock.Today()
	orders, err := s.orders.FindByFilter(ctx, models.OrderFilter{
		DateFrom: &today,
		DateTo:   &today,
		Statuses: []string{models.OrderStatusPending, models.OrderStatusConfirmed},
	})
	if err != nil {
		s.logger.Error("Failed to load today's orders", zap.Error(err))
		return result, internalError("Failed to load orders")
	}

	groups, ids := groupByRestaurant(orders)
	restaurants, err := s.restaurants.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load restaurants", zap.Error(err))
		return result, internalError("Failed to load restaurants")
	}

	for i := range restaurants {
		restaurant := &restaurants[i]
		if !restaurant.IsActive {
			result.Skipped++
			continue
		}
		group := groups[restaurant.ID]
		if err := s.sendSummary(ctx, restaurant, today, group); err != nil {
			result.Failed++
			continue
		}
		result.Sent++
		s.markSent(ctx, group)
	}

	s.logger.Info("Restaurant summaries dispatched",
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// markSent moves confirmed orders to sent_to_restaurant.
func (s *dispatchServiceImpl) markSent(ctx context.Context, orders []models.Order) {
	for i := range orders {
		if orders[i].Status != models.OrderStatusConfirmed {
			continue
		}
		orders[i].Status = models.OrderStatusSentToRestaurant
		if err := s.orders.Update(ctx, &orders[i]); err != nil {
			s.logger.Error("Failed to mark order sent", zap.String("order_id", orders[i].ID.String()), zap.Error(err))
		}
	}
}

// SendSummaryForRestaurant e-mails one restaurant its non-cancelled orders for date.
func (s *dispatchServiceImpl) SendSummaryForRestaurant(ctx context.Context, restaurantID uuid.UUID, date time.Time) (string, *ServiceError) {
	restaurant, err := s.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", newError(CodeRestaurantNotFound, "Restaurant not found")
		}
		s.logger.Error("Failed to load restaurant", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return "", internalError("Failed to send summary")
	}

	orders, err := s.orders.FindByFilter(ctx, models.OrderFilter{
		RestaurantID:  &restaurantID,
		DateFrom:      &date,
		DateTo:        &date,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		s.logger.Error("Failed to load orders", zap.String("restaurant_id", restaurantID.String()), zap.Error(err))
		return "", internalError("Failed to send summary")
	}
	if len(orders) == 0 {
		return "", newError(CodeNoOrders, "No orders found for this date")
	}
	if s.email == nil {
		return "", internalError("Email sender not configured")
	}

	if err := s.sendSummary(ctx, restaurant, date, orders); err != nil {
		return "", internalError("Failed to send summary")
	}
	return "Summary sent successfully", nil
}

func (s *dispatchServiceImpl) sendSummary(ctx context.Context, restaurant *models.Restaurant, date time.Time, orders []models.Order) error {
	record := &models.RestaurantOrderSummary{
		RestaurantID: restaurant.ID,
		OrderDate:    date,
		EmailStatus:  models.SummaryStatusSent,
		SummaryData:  summaryData(orders),
	}

	sendErr := s.deliverSummary(ctx, restaurant, date, orders)
	if sendErr != nil {
		record.EmailStatus = models.SummaryStatusFailed
		s.logger.Warn("Restaurant summary failed",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.String("date", models.FormatDate(date)),
			zap.Error(sendErr))
	} else {
		now := time.Now().UTC()
		record.SentAt = &now
		s.logger.Info("Restaurant summary sent",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.String("date", models.FormatDate(date)),
			zap.Int("orders", len(orders)))
	}

	if err := s.records.CreateSummary(ctx, record); err != nil {
		s.logger.Error("Failed to record restaurant summary", zap.String("restaurant_id", restaurant.ID.String()), zap.Error(err))
	}
	return sendErr
}

func (s *dispatchServiceImpl) deliverSummary(ctx context.Context, restaurant *models.Restaurant, date time.Time, orders []models.Order) error {
	if strings.TrimSpace(restaurant.Email) == "" {
		return errors.New("No email address")
	}

	view, err := s.summaryView(ctx, restaurant, date, orders)
	if err != nil {
		return err
	}
	subject, body, err := sender.RenderOrderSummary(view)
	if err != nil {
		return err
	}
	_, err = s.email.SendEmail(ctx, restaurant.Email, subject, body)
	return err
}

func (s *dispatchServiceImpl) summaryView(ctx context.Context, restaurant *models.Restaurant, date time.Time, orders []models.Order) (sender.OrderSummary, error) {
	userIDs := make([]uuid.UUID, 0, len(orders))
	itemIDs := make([]uuid.UUID, 0)
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, item := range o.Items {
			itemIDs = append(itemIDs, item.MenuItemID)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return sender.OrderSummary{}, fmt.Errorf("load users: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}

	menuItems, err := s.menus.FindItemsByIDs(ctx, itemIDs)
	if err != nil {
		return sender.OrderSummary{}, fmt.Errorf("load menu items: %w", err)
	}
	itemNames := make(map[uuid.UUID]string, len(menuItems))
	for _, mi := range menuItems {
		itemNames[mi.ID] = mi.Name
	}

	total := decimal.Zero
	lines := make([]sender.SummaryLine, 0, len(orders))
	for _, o := range orders {
		line := sender.SummaryLine{
			CustomerName: names[o.UserID],
			OrderText:    o.OrderText,
			Notes:        o.Notes,
			Total:        o.TotalAmount.StringFixed(2),
		}
		for _, item := range o.Items {
			label := fmt.Sprintf("%dx %s", item.Quantity, itemNames[item.MenuItemID])
			if item.Notes != "" {
				label += " (" + item.Notes + ")"
			}
			line.Items = append(line.Items, label)
		}
		lines = append(lines, line)
		total = total.Add(o.TotalAmount)
	}

	return sender.OrderSummary{
		RestaurantName: restaurant.Name,
		Date:           models.FormatDate(date),
		Orders:         lines,
		OrderCount:     len(orders),
		TotalAmount:    total.StringFixed(2),
	}, nil
}

func (s *dispatchServiceImpl) UsersWithoutOrders(ctx context.Context, date time.Time) ([]models.User, *ServiceError) {
	return usersWithoutOrders(ctx, s.users, s.orders, models.DateOf(date), s.logger)
}

func (s *dispatchServiceImpl) ListReminders(ctx context.Context, page, limit int) ([]models.Reminder, int64, *ServiceError) {
	reminders, total, err := s.records.ListReminders(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list reminders", zap.Error(err))
		return nil, 0, internalError("Failed to list reminders")
	}
	return reminders, total, nil
}

func groupByRestaurant(orders []models.Order) (map[uuid.UUID][]models.Order, []uuid.UUID) {
	groups := make(map[uuid.UUID][]models.Order)
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		if _, ok := groups[o.RestaurantID]; !ok {
			ids = append(ids, o.RestaurantID)
		}
		groups[o.RestaurantID] = append(groups[o.RestaurantID], o)
	}
	return groups, ids
}

func summaryData(orders []models.Order) []byte {
	data := models.SummaryData{OrderIDs: make([]string, 0, len(orders))}
	total := decimal.Zero
	for _, o := range orders {
		data.OrderIDs = append(data.OrderIDs, o.ID.String())
		total = total.Add(o.TotalAmount)
	}
	data.OrderCount = len(orders)
	data.TotalAmount = total.StringFixed(2)
	raw, _ := json.Marshal(data)
	return raw
}
