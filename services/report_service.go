package services

import (
	"context"
	"sort"
	"time"

	"meal-service/models"
	"meal-service/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	recentOrdersLimit   = 10
	defaultReportWindow = 30
)

// ReportService builds admin dashboards, order listings and revenue reports.
type ReportService interface {
	Dashboard(ctx context.Context) (*models.DashboardStats, *ServiceError)
	ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *ServiceError)
	OrdersSummary(ctx context.Context, from, to time.Time) ([]models.DateSummary, *ServiceError)
	OrderReport(ctx context.Context, from, to *time.Time) (*models.OrderReport, *ServiceError)
}

type reportServiceImpl struct {
	orders      repository.OrderRepository
	restaurants repository.RestaurantRepository
	menus       repository.MenuRepository
	users       repository.UserRepository
	clock       Clock
	logger      *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	orders repository.OrderRepository,
	restaurants repository.RestaurantRepository,
	menus repository.MenuRepository,
	users repository.UserRepository,
	clock Clock,
	logger *zap.Logger,
) ReportService {
	return &reportServiceImpl{
		orders:      orders,
		restaurants: restaurants,
		menus:       menus,
		users:       users,
		clock:       clock,
		logger:      logger,
	}
}

func (s *reportServiceImpl) Dashboard(ctx context.Context) (*models.DashboardStats, *ServiceError) {
	today := s.clock.Today()
	weekEnd := models.AddDays(today, 7)
	tomorrow := models.AddDays(today, 1)

	stats := &models.DashboardStats{}
	var err error

	if stats.TotalUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, s.dashboardError(err)
	}
	if stats.TotalRestaurants, err = s.restaurants.CountActive(ctx); err != nil {
		return nil, s.dashboardError(err)
	}
	if stats.TotalMenus, err = s.menus.CountActive(ctx); err != nil {
		return nil, s.dashboardError(err)
	}

	week := models.OrderFilter{DateFrom: &today, DateTo: &weekEnd}
	if stats.OrdersThisWeek, err = s.orders.Count(ctx, week); err != nil {
		return nil, s.dashboardError(err)
	}
	if stats.OrdersToday, err = s.orders.Count(ctx, models.OrderFilter{DateFrom: &today, DateTo: &today}); err != nil {
		return nil, s.dashboardError(err)
	}
	if stats.StatusBreakdown, err = s.orders.CountByStatus(ctx, week); err != nil {
		return nil, s.dashboardError(err)
	}
	if stats.RecentOrders, err = s.orders.Recent(ctx, recentOrdersLimit); err != nil {
		return nil, s.dashboardError(err)
	}

	missing, svcErr := usersWithoutOrders(ctx, s.users, s.orders, tomorrow, s.logger)
	if svcErr != nil {
		return nil, svcErr
	}
	stats.UsersWithoutOrdersTomorrow = len(missing)

	return stats, nil
}

func (s *reportServiceImpl) dashboardError(err error) *ServiceError {
	s.logger.Error("Failed to build dashboard", zap.Error(err))
	return internalError("Failed to load dashboard")
}

func (s *reportServiceImpl) ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orders.FindAll(ctx, filter, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to list orders")
	}
	return orders, total, nil
}

// OrdersSummary groups non-cancelled orders in [from, to] by date and restaurant.
func (s *reportServiceImpl) OrdersSummary(ctx context.Context, from, to time.Time) ([]models.DateSummary, *ServiceError) {
	if from.After(to) {
		return nil, newError(CodeInvalidRange, "date_from must not be after date_to")
	}
	orders, svcErr := s.loadOrders(ctx, from, to)
	if svcErr != nil {
		return nil, svcErr
	}
	names, svcErr := s.restaurantNames(ctx, orders)
	if svcErr != nil {
		return nil, svcErr
	}

	byDate := make(map[string][]models.Order)
	for _, o := range orders {
		key := models.FormatDate(o.OrderDate)
		byDate[key] = append(byDate[key], o)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	summaries := make([]models.DateSummary, 0, len(dates))
	for _, d := range dates {
		dayOrders := byDate[d]
		totals := totalsByRestaurant(dayOrders, names)
		sum := decimal.Zero
		for _, o := range dayOrders {
			sum = sum.Add(o.TotalAmount)
		}
		summaries = append(summaries, models.DateSummary{
			Date:         d,
			TotalOrders:  len(dayOrders),
			TotalAmount:  sum.Round(2),
			ByRestaurant: totals,
		})
	}
	return summaries, nil
}

// OrderReport aggregates non-cancelled orders. Missing bounds default to the last 30 days.
func (s *reportServiceImpl) OrderReport(ctx context.Context, from, to *time.Time) (*models.OrderReport, *ServiceError) {
	end := s.clock.Today()
	if to != nil {
		end = models.DateOf(*to)
	}
	start := models.AddDays(end, -defaultReportWindow)
	if from != nil {
		start = models.DateOf(*from)
	}
	if start.After(end) {
		return nil, newError(CodeInvalidRange, "date_from must not be after date_to")
	}

	orders, svcErr := s.loadOrders(ctx, start, end)
	if svcErr != nil {
		return nil, svcErr
	}
	names, svcErr := s.restaurantNames(ctx, orders)
	if svcErr != nil {
		return nil, svcErr
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}
	average := decimal.Zero
	if len(orders) > 0 {
		average = revenue.Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}

	return &models.OrderReport{
		DateFrom:          models.FormatDate(start),
		DateTo:            models.FormatDate(end),
		TotalOrders:       len(orders),
		TotalRevenue:      revenue.Round(2),
		AverageOrderValue: average,
		ByRestaurant:      totalsByRestaurant(orders, names),
		Orders:            orders,
	}, nil
}

func (s *reportServiceImpl) loadOrders(ctx context.Context, from, to time.Time) ([]models.Order, *ServiceError) {
	orders, err := s.orders.FindByFilter(ctx, models.OrderFilter{
		DateFrom:      &from,
		DateTo:        &to,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		s.logger.Error("Failed to load orders for report", zap.Error(err))
		return nil, internalError("Failed to build report")
	}
	return orders, nil
}

func (s *reportServiceImpl) restaurantNames(ctx context.Context, orders []models.Order) (map[uuid.UUID]string, *ServiceError) {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, o := range orders {
		if !seen[o.RestaurantID] {
			seen[o.RestaurantID] = true
			ids = append(ids, o.RestaurantID)
		}
	}
	restaurants, err := s.restaurants.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load restaurants for report", zap.Error(err))
		return nil, internalError("Failed to build report")
	}
	names := make(map[uuid.UUID]string, len(restaurants))
	for _, r := range restaurants {
		names[r.ID] = r.Name
	}
	return names, nil
}

func totalsByRestaurant(orders []models.Order, names map[uuid.UUID]string) []models.RestaurantTotals {
	index := make(map[uuid.UUID]int)
	totals := make([]models.RestaurantTotals, 0)
	for _, o := range orders {
		i, ok := index[o.RestaurantID]
		if !ok {
			i = len(totals)
			index[o.RestaurantID] = i
			totals = append(totals, models.RestaurantTotals{
				RestaurantID:   o.RestaurantID,
				RestaurantName: names[o.RestaurantID],
				TotalAmount:    decimal.Zero,
			})
		}
		totals[i].OrderCount++
		totals[i].TotalAmount = totals[i].TotalAmount.Add(o.TotalAmount)
	}
	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].RestaurantName < totals[b].RestaurantName
	})
	return totals
}

// usersWithoutOrders returns active users holding no order of any status on date.
func usersWithoutOrders(ctx context.Context, users repository.UserRepository, orders repository.OrderRepository, date time.Time, logger *zap.Logger) ([]models.User, *ServiceError) {
	active, err := users.FindActive(ctx)
	if err != nil {
		logger.Error("Failed to list active users", zap.Error(err))
		return nil, internalError("Failed to load users")
	}
	withOrder, err := orders.UserIDsWithOrderOn(ctx, date)
	if err != nil {
		logger.Error("Failed to list users with orders", zap.String("date", models.FormatDate(date)), zap.Error(err))
		return nil, internalError("Failed to load orders")
	}

	has := make(map[uuid.UUID]bool, len(withOrder))
	for _, id := range withOrder {
		has[id] = true
	}
	missing := make([]models.User, 0)
	for _, u := range active {
		if !has[u.ID] {
			missing = append(missing, u)
		}
	}
	return missing, nil
}
