package controllers_test

import (
	"context"
	"time"

	"meal-service/controllers"
	"meal-service/middleware"
	"meal-service/models"
	"meal-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
	controllers.RegisterValidators()
}

var (
	testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testClock  = services.FixedClock{Date: time.Date(2030, 3, 13, 0, 0, 0, 0, time.UTC)}
)

func withIdentity(r *gin.Engine, role string) *gin.Engine {
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserContextKey, testUserID)
		c.Set(middleware.RoleContextKey, role)
		c.Next()
	})
	return r
}

// --- Mock OrderService ---

type mockOrderService struct {
	createFn         func(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *services.ServiceError)
	createFreeformFn func(ctx context.Context, userID uuid.UUID, req *models.CreateFreeformOrderRequest) (*models.Order, *services.ServiceError)
	updateFn         func(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *services.ServiceError)
	updateFreeformFn func(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateFreeformOrderRequest) (*models.Order, *services.ServiceError)
	cancelFn         func(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *services.ServiceError)
	setStatusFn      func(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *services.ServiceError)
	missingFn        func(ctx context.Context, userID uuid.UUID, start time.Time, daysAhead int) ([]time.Time, *services.ServiceError)
	weeklyFn         func(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.DayOrder, *services.ServiceError)
	listFn           func(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *services.ServiceError)
	getFn            func(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *services.ServiceError)
}

func (m *mockOrderService) CreateStructuredOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *services.ServiceError) {
	return m.createFn(ctx, userID, req)
}
func (m *mockOrderService) CreateFreeformOrder(ctx context.Context, userID uuid.UUID, req *models.CreateFreeformOrderRequest) (*models.Order, *services.ServiceError) {
	return m.createFreeformFn(ctx, userID, req)
}
func (m *mockOrderService) UpdateOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateOrderRequest) (*models.Order, *services.ServiceError) {
	return m.updateFn(ctx, orderID, userID, req)
}
func (m *mockOrderService) UpdateFreeformOrder(ctx context.Context, orderID, userID uuid.UUID, req *models.UpdateFreeformOrderRequest) (*models.Order, *services.ServiceError) {
	return m.updateFreeformFn(ctx, orderID, userID, req)
}
func (m *mockOrderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.cancelFn(ctx, orderID, userID)
}
func (m *mockOrderService) AdminSetStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, *services.ServiceError) {
	return m.setStatusFn(ctx, orderID, status)
}
func (m *mockOrderService) MissingOrderDays(ctx context.Context, userID uuid.UUID, start time.Time, daysAhead int) ([]time.Time, *services.ServiceError) {
	return m.missingFn(ctx, userID, start, daysAhead)
}
func (m *mockOrderService) WeeklyCalendar(ctx context.Context, userID uuid.UUID, start time.Time) ([]models.DayOrder, *services.ServiceError) {
	return m.weeklyFn(ctx, userID, start)
}
func (m *mockOrderService) ListUserOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.listFn(ctx, filter, page, limit)
}
func (m *mockOrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.getFn(ctx, orderID, userID)
}

// --- Mock RestaurantService / AvailabilityService ---

type mockRestaurantService struct {
	createFn func(ctx context.Context, req *models.CreateRestaurantRequest) (*models.Restaurant, *services.ServiceError)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Restaurant, *services.ServiceError)
	listFn   func(ctx context.Context, activeOnly bool) ([]models.Restaurant, *services.ServiceError)
	updateFn func(ctx context.Context, id uuid.UUID, req *models.UpdateRestaurantRequest) (*models.Restaurant, *services.ServiceError)
	deactFn  func(ctx context.Context, id uuid.UUID) *services.ServiceError
}

func (m *mockRestaurantService) CreateRestaurant(ctx context.Context, req *models.CreateRestaurantRequest) (*models.Restaurant, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockRestaurantService) GetRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, *services.ServiceError) {
	return m.getFn(ctx, id)
}
func (m *mockRestaurantService) ListRestaurants(ctx context.Context, activeOnly bool) ([]models.Restaurant, *services.ServiceError) {
	return m.listFn(ctx, activeOnly)
}
func (m *mockRestaurantService) UpdateRestaurant(ctx context.Context, id uuid.UUID, req *models.UpdateRestaurantRequest) (*models.Restaurant, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockRestaurantService) DeactivateRestaurant(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deactFn(ctx, id)
}

type mockAvailabilityService struct {
	isAvailableFn func(ctx context.Context, restaurantID uuid.UUID, weekday int) (bool, *services.ServiceError)
	setFn         func(ctx context.Context, restaurantID uuid.UUID, weekdays []int) ([]models.DayAvailability, *services.ServiceError)
	getFn         func(ctx context.Context, restaurantID uuid.UUID) ([]models.DayAvailability, *services.ServiceError)
}

func (m *mockAvailabilityService) IsAvailable(ctx context.Context, restaurantID uuid.UUID, weekday int) (bool, *services.ServiceError) {
	return m.isAvailableFn(ctx, restaurantID, weekday)
}
func (m *mockAvailabilityService) SetAvailability(ctx context.Context, restaurantID uuid.UUID, weekdays []int) ([]models.DayAvailability, *services.ServiceError) {
	return m.setFn(ctx, restaurantID, weekdays)
}
func (m *mockAvailabilityService) GetAvailability(ctx context.Context, restaurantID uuid.UUID) ([]models.DayAvailability, *services.ServiceError) {
	return m.getFn(ctx, restaurantID)
}

// --- Mock MenuService ---

type mockMenuService struct {
	validateFn   func(ctx context.Context, from, until time.Time, restaurantID uuid.UUID) *services.ServiceError
	createFn     func(ctx context.Context, req *models.CreateMenuRequest) (*models.Menu, *services.ServiceError)
	availableFn  func(ctx context.Context, date time.Time) ([]models.Menu, *services.ServiceError)
	listFn       func(ctx context.Context, filter models.MenuFilter) ([]models.Menu, *services.ServiceError)
	getFn        func(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Menu, *services.ServiceError)
	updateFn     func(ctx context.Context, id uuid.UUID, req *models.UpdateMenuRequest) (*models.Menu, *services.ServiceError)
	deleteFn     func(ctx context.Context, id uuid.UUID) *services.ServiceError
	addItemFn    func(ctx context.Context, menuID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *services.ServiceError)
	updateItemFn func(ctx context.Context, id uuid.UUID, req *models.UpdateMenuItemRequest) (*models.MenuItem, *services.ServiceError)
	deleteItemFn func(ctx context.Context, id uuid.UUID) *services.ServiceError
	presignFn    func(ctx context.Context, menuID uuid.UUID, req *models.UploadURLRequest) (*models.UploadURLResponse, *services.ServiceError)
}

func (m *mockMenuService) ValidateMenuDateRange(ctx context.Context, from, until time.Time, restaurantID uuid.UUID) *services.ServiceError {
	return m.validateFn(ctx, from, until, restaurantID)
}
func (m *mockMenuService) CreateMenu(ctx context.Context, req *models.CreateMenuRequest) (*models.Menu, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockMenuService) AvailableMenus(ctx context.Context, date time.Time) ([]models.Menu, *services.ServiceError) {
	return m.availableFn(ctx, date)
}
func (m *mockMenuService) ListMenus(ctx context.Context, filter models.MenuFilter) ([]models.Menu, *services.ServiceError) {
	return m.listFn(ctx, filter)
}
func (m *mockMenuService) GetMenu(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Menu, *services.ServiceError) {
	return m.getFn(ctx, id, includeInactive)
}
func (m *mockMenuService) UpdateMenu(ctx context.Context, id uuid.UUID, req *models.UpdateMenuRequest) (*models.Menu, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockMenuService) DeleteMenu(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deleteFn(ctx, id)
}
func (m *mockMenuService) AddMenuItem(ctx context.Context, menuID uuid.UUID, req *models.CreateMenuItemRequest) (*models.MenuItem, *services.ServiceError) {
	return m.addItemFn(ctx, menuID, req)
}
func (m *mockMenuService) UpdateMenuItem(ctx context.Context, id uuid.UUID, req *models.UpdateMenuItemRequest) (*models.MenuItem, *services.ServiceError) {
	return m.updateItemFn(ctx, id, req)
}
func (m *mockMenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deleteItemFn(ctx, id)
}
func (m *mockMenuService) PresignMenuUpload(ctx context.Context, menuID uuid.UUID, req *models.UploadURLRequest) (*models.UploadURLResponse, *services.ServiceError) {
	return m.presignFn(ctx, menuID, req)
}

// --- Mock ReportService / DispatchService ---

type mockReportService struct {
	dashboardFn func(ctx context.Context) (*models.DashboardStats, *services.ServiceError)
	listFn      func(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *services.ServiceError)
	summaryFn   func(ctx context.Context, from, to time.Time) ([]models.DateSummary, *services.ServiceError)
	reportFn    func(ctx context.Context, from, to *time.Time) (*models.OrderReport, *services.ServiceError)
}

func (m *mockReportService) Dashboard(ctx context.Context) (*models.DashboardStats, *services.ServiceError) {
	return m.dashboardFn(ctx)
}
func (m *mockReportService) ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.listFn(ctx, filter, page, limit)
}
func (m *mockReportService) OrdersSummary(ctx context.Context, from, to time.Time) ([]models.DateSummary, *services.ServiceError) {
	return m.summaryFn(ctx, from, to)
}
func (m *mockReportService) OrderReport(ctx context.Context, from, to *time.Time) (*models.OrderReport, *services.ServiceError) {
	return m.reportFn(ctx, from, to)
}

type mockDispatchService struct {
	remindersFn     func(ctx context.Context) (models.DispatchResult, *services.ServiceError)
	summariesFn     func(ctx context.Context) (models.DispatchResult, *services.ServiceError)
	sendOneFn       func(ctx context.Context, restaurantID uuid.UUID, date time.Time) (string, *services.ServiceError)
	withoutOrdersFn func(ctx context.Context, date time.Time) ([]models.User, *services.ServiceError)
	listRemindersFn func(ctx context.Context, page, limit int) ([]models.Reminder, int64, *services.ServiceError)
}

func (m *mockDispatchService) SendDailyReminders(ctx context.Context) (models.DispatchResult, *services.ServiceError) {
	return m.remindersFn(ctx)
}
func (m *mockDispatchService) SendRestaurantSummaries(ctx context.Context) (models.DispatchResult, *services.ServiceError) {
	return m.summariesFn(ctx)
}
func (m *mockDispatchService) SendSummaryForRestaurant(ctx context.Context, restaurantID uuid.UUID, date time.Time) (string, *services.ServiceError) {
	return m.sendOneFn(ctx, restaurantID, date)
}
func (m *mockDispatchService) UsersWithoutOrders(ctx context.Context, date time.Time) ([]models.User, *services.ServiceError) {
	return m.withoutOrdersFn(ctx, date)
}
func (m *mockDispatchService) ListReminders(ctx context.Context, page, limit int) ([]models.Reminder, int64, *services.ServiceError) {
	return m.listRemindersFn(ctx, page, limit)
}

// --- Mock UserService / TaskRunner ---

type mockUserService struct {
	createFn func(ctx context.Context, req *models.CreateUserRequest) (*models.User, *services.ServiceError)
	getFn    func(ctx context.Context, id uuid.UUID) (*models.User, *services.ServiceError)
	listFn   func(ctx context.Context, page, limit int) ([]models.User, int64, *services.ServiceError)
	updateFn func(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *services.ServiceError)
	deactFn  func(ctx context.Context, id uuid.UUID) *services.ServiceError
}

func (m *mockUserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *services.ServiceError) {
	return m.createFn(ctx, req)
}
func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, *services.ServiceError) {
	return m.getFn(ctx, id)
}
func (m *mockUserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, *services.ServiceError) {
	return m.listFn(ctx, page, limit)
}
func (m *mockUserService) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *services.ServiceError) {
	return m.updateFn(ctx, id, req)
}
func (m *mockUserService) DeactivateUser(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deactFn(ctx, id)
}

type mockTaskRunner struct {
	runFn func(ctx context.Context, task string) (*models.TaskRunResult, *services.ServiceError)
}

func (m *mockTaskRunner) Run(ctx context.Context, task string) (*models.TaskRunResult, *services.ServiceError) {
	return m.runFn(ctx, task)
}

// --- Mock MotdService ---

type mockMotdService struct {
	listFn func(ctx context.Context, weekday *int) ([]models.MotdRow, *services.ServiceError)
	setFn  func(ctx context.Context, req *models.SetMotdRequest) (*models.MotdRow, *services.ServiceError)
}

func (m *mockMotdService) ListOptions(ctx context.Context, weekday *int) ([]models.MotdRow, *services.ServiceError) {
	return m.listFn(ctx, weekday)
}
func (m *mockMotdService) SetOption(ctx context.Context, req *models.SetMotdRequest) (*models.MotdRow, *services.ServiceError) {
	return m.setFn(ctx, req)
}
