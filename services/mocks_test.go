package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"meal-service/models"
	"meal-service/repository"
	"meal-service/sender"
	"meal-service/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockNotFoundError struct{}

func (e *mockNotFoundError) Error() string { return "record not found" }

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func date(s string) time.Time {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// --- Restaurant repository ---

type mockRestaurantRepo struct {
	restaurants  map[uuid.UUID]*models.Restaurant
	availability map[uuid.UUID]map[int]bool
	upsertCalls  int
}

func newMockRestaurantRepo() *mockRestaurantRepo {
	return &mockRestaurantRepo{
		restaurants:  make(map[uuid.UUID]*models.Restaurant),
		availability: make(map[uuid.UUID]map[int]bool),
	}
}

var _ repository.RestaurantRepository = (*mockRestaurantRepo)(nil)

func (m *mockRestaurantRepo) add(name string, active bool, weekdays ...int) *models.Restaurant {
	r := &models.Restaurant{ID: uuid.New(), Name: name, Email: name + "@example.com", IsActive: active}
	m.restaurants[r.ID] = r
	if weekdays != nil {
		m.setRows(r.ID, weekdays)
	}
	return r
}

func (m *mockRestaurantRepo) setRows(id uuid.UUID, weekdays []int) {
	rows := make(map[int]bool, 7)
	for d := 0; d < 7; d++ {
		rows[d] = false
	}
	for _, d := range weekdays {
		rows[d] = true
	}
	m.availability[id] = rows
}

func (m *mockRestaurantRepo) Create(_ context.Context, r *models.Restaurant, weekdays []int) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.restaurants[r.ID] = r
	m.setRows(r.ID, weekdays)
	return nil
}

func (m *mockRestaurantRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Restaurant, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	cp := *r
	return &cp, nil
}

func (m *mockRestaurantRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Restaurant, error) {
	var result []models.Restaurant
	for _, id := range ids {
		if r, ok := m.restaurants[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRestaurantRepo) FindAll(_ context.Context, activeOnly bool) ([]models.Restaurant, error) {
	var result []models.Restaurant
	for _, r := range m.restaurants {
		if activeOnly && !r.IsActive {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockRestaurantRepo) Update(_ context.Context, r *models.Restaurant) error {
	cp := *r
	m.restaurants[r.ID] = &cp
	return nil
}

func (m *mockRestaurantRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, r := range m.restaurants {
		if r.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockRestaurantRepo) FindAvailability(_ context.Context, id uuid.UUID) ([]models.AvailabilityEntry, error) {
	var entries []models.AvailabilityEntry
	for d := 0; d < 7; d++ {
		if open, ok := m.availability[id][d]; ok {
			entries = append(entries, models.AvailabilityEntry{RestaurantID: id, Weekday: d, IsAvailable: open})
		}
	}
	return entries, nil
}

func (m *mockRestaurantRepo) FindAvailabilityForWeekday(_ context.Context, id uuid.UUID, weekday int) (*models.AvailabilityEntry, error) {
	open, ok := m.availability[id][weekday]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	return &models.AvailabilityEntry{RestaurantID: id, Weekday: weekday, IsAvailable: open}, nil
}

func (m *mockRestaurantRepo) UpsertAvailability(_ context.Context, id uuid.UUID, weekdays []int) error {
	m.upsertCalls++
	m.setRows(id, weekdays)
	return nil
}

// --- Menu repository ---

type mockMenuRepo struct {
	restaurants *mockRestaurantRepo
	menus       map[uuid.UUID]*models.Menu
	items       map[uuid.UUID]*models.MenuItem
	createErr   error
}

func newMockMenuRepo(restaurants *mockRestaurantRepo) *mockMenuRepo {
	return &mockMenuRepo{
		restaurants: restaurants,
		menus:       make(map[uuid.UUID]*models.Menu),
		items:       make(map[uuid.UUID]*models.MenuItem),
	}
}

var _ repository.MenuRepository = (*mockMenuRepo)(nil)

func (m *mockMenuRepo) addMenu(restaurantID uuid.UUID, name, from, until string, active bool) *models.Menu {
	menu := &models.Menu{
		ID:             uuid.New(),
		RestaurantID:   restaurantID,
		Name:           name,
		AvailableFrom:  date(from),
		AvailableUntil: date(until),
		IsActive:       active,
	}
	m.menus[menu.ID] = menu
	return menu
}

func (m *mockMenuRepo) addItem(menuID uuid.UUID, name, price string, available bool) *models.MenuItem {
	item := &models.MenuItem{
		ID:          uuid.New(),
		MenuID:      menuID,
		Name:        name,
		Price:       mustDecimal(price),
		IsAvailable: available,
	}
	m.items[item.ID] = item
	return item
}

func (m *mockMenuRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, ok := m.menus[id]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	cp := *menu
	return &cp, nil
}

func (m *mockMenuRepo) FindWithItems(ctx context.Context, id uuid.UUID) (*models.Menu, error) {
	menu, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	menu.Items, _ = m.ItemsForMenu(ctx, id)
	return menu, nil
}

func (m *mockMenuRepo) FindActiveForRestaurantOnDate(_ context.Context, restaurantID uuid.UUID, d time.Time) (*models.Menu, error) {
	for _, menu := range m.menus {
		if menu.RestaurantID == restaurantID && menu.IsActive && menu.Covers(d) {
			cp := *menu
			return &cp, nil
		}
	}
	return nil, &mockNotFoundError{}
}

func (m *mockMenuRepo) FindOverlappingActive(_ context.Context, restaurantID uuid.UUID, from, until time.Time) ([]models.Menu, error) {
	var result []models.Menu
	for _, menu := range m.menus {
		if menu.RestaurantID == restaurantID && menu.IsActive &&
			!menu.AvailableFrom.After(until) && !menu.AvailableUntil.Before(from) {
			result = append(result, *menu)
		}
	}
	return result, nil
}

func (m *mockMenuRepo) CreateSuperseding(_ context.Context, menu *models.Menu) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.menus {
		if existing.RestaurantID == menu.RestaurantID {
			existing.IsActive = false
		}
	}
	if menu.ID == uuid.Nil {
		menu.ID = uuid.New()
	}
	menu.IsActive = true
	cp := *menu
	m.menus[menu.ID] = &cp
	return nil
}

// Update enforces one active menu per restaurant like uq_menus_active_restaurant.
func (m *mockMenuRepo) Update(_ context.Context, menu *models.Menu) error {
	if menu.IsActive {
		for _, existing := range m.menus {
			if existing.ID != menu.ID && existing.RestaurantID == menu.RestaurantID && existing.IsActive {
				return &mockDuplicateError{}
			}
		}
	}
	cp := *menu
	m.menus[menu.ID] = &cp
	return nil
}

func (m *mockMenuRepo) AvailableOn(_ context.Context, d time.Time) ([]models.Menu, error) {
	var result []models.Menu
	for _, menu := range m.menus {
		r, ok := m.restaurants.restaurants[menu.RestaurantID]
		if !ok || !r.IsActive || !menu.IsActive || !menu.Covers(d) {
			continue
		}
		result = append(result, *menu)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].AvailableFrom.Before(result[j].AvailableFrom) })
	return result, nil
}

func (m *mockMenuRepo) FindAll(_ context.Context, filter models.MenuFilter) ([]models.Menu, error) {
	var result []models.Menu
	for _, menu := range m.menus {
		if filter.ActiveOnly && !menu.IsActive {
			continue
		}
		if filter.RestaurantID != nil && menu.RestaurantID != *filter.RestaurantID {
			continue
		}
		result = append(result, *menu)
	}
	return result, nil
}

func (m *mockMenuRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, menu := range m.menus {
		if menu.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *mockMenuRepo) CreateItem(_ context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockMenuRepo) FindItemByID(_ context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	cp := *item
	return &cp, nil
}

func (m *mockMenuRepo) FindItemsByIDs(_ context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var result []models.MenuItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (m *mockMenuRepo) ItemsForMenu(_ context.Context, menuID uuid.UUID) ([]models.MenuItem, error) {
	var result []models.MenuItem
	for _, item := range m.items {
		if item.MenuID == menuID {
			result = append(result, *item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockMenuRepo) UpdateItem(_ context.Context, item *models.MenuItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

// --- MOTD repository ---

type mockMotdRepo struct {
	options map[string]*models.MotdOption
	err     error
}

func newMockMotdRepo() *mockMotdRepo {
	return &mockMotdRepo{options: make(map[string]*models.MotdOption)}
}

var _ repository.MotdRepository = (*mockMotdRepo)(nil)

func motdKey(restaurantID uuid.UUID, weekday int) string {
	return fmt.Sprintf("%s/%d", restaurantID, weekday)
}

func (m *mockMotdRepo) FindByWeekday(_ context.Context, weekday int) ([]models.MotdOption, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.MotdOption
	for _, o := range m.options {
		if o.Weekday == weekday {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockMotdRepo) Upsert(_ context.Context, option *models.MotdOption) error {
	if m.err != nil {
		return m.err
	}
	cp := *option
	m.options[motdKey(option.RestaurantID, option.Weekday)] = &cp
	return nil
}

func (m *mockMotdRepo) Delete(_ context.Context, restaurantID uuid.UUID, weekday int) error {
	if m.err != nil {
		return m.err
	}
	delete(m.options, motdKey(restaurantID, weekday))
	return nil
}

// --- Order repository ---

type mockOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*models.Order
	createErr error
	findErr   error
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

var _ repository.OrderRepository = (*mockOrderRepo)(nil)

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderItem(nil), o.Items...)
	return &cp
}

func (m *mockOrderRepo) add(order *models.Order) *models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	m.orders[order.ID] = copyOrder(order)
	return order
}

func (m *mockOrderRepo) CreateWithItems(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, o := range m.orders {
		if o.UserID == order.UserID && o.OrderDate.Equal(order.OrderDate) {
			return &mockDuplicateError{}
		}
	}
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	m.orders[order.ID] = copyOrder(order)
	return nil
}

type mockDuplicateError struct{}

func (e *mockDuplicateError) Error() string {
	return `duplicate key value violates unique constraint "uq_user_order_date"`
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepo) FindByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.UserID != userID {
		return nil, &mockNotFoundError{}
	}
	return copyOrder(o), nil
}

func (m *mockOrderRepo) FindByUserAndDate(_ context.Context, userID uuid.UUID, d time.Time) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.UserID == userID && o.OrderDate.Equal(d) {
			return copyOrder(o), nil
		}
	}
	return nil, &mockNotFoundError{}
}

func (m *mockOrderRepo) FindByUserBetween(_ context.Context, userID uuid.UUID, from, to time.Time) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(models.OrderFilter{UserID: &userID, DateFrom: &from, DateTo: &to}), nil
}

func (m *mockOrderRepo) ReplaceItems(_ context.Context, order *models.Order, items []models.OrderItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range items {
		items[i].ID = uuid.New()
		items[i].OrderID = order.ID
	}
	order.Items = items
	m.orders[order.ID] = copyOrder(order)
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.orders[order.ID]
	if !ok {
		return &mockNotFoundError{}
	}
	cp := copyOrder(order)
	cp.Items = stored.Items
	m.orders[order.ID] = cp
	return nil
}

func (m *mockOrderRepo) filter(f models.OrderFilter) []models.Order {
	var result []models.Order
	for _, o := range m.orders {
		if f.UserID != nil && o.UserID != *f.UserID {
			continue
		}
		if f.RestaurantID != nil && o.RestaurantID != *f.RestaurantID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				if s == o.Status {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if f.ExcludeStatus != "" && o.Status == f.ExcludeStatus {
			continue
		}
		if f.DateFrom != nil && o.OrderDate.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && o.OrderDate.After(*f.DateTo) {
			continue
		}
		result = append(result, *copyOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderDate.Before(result[j].OrderDate) })
	return result
}

func (m *mockOrderRepo) FindAll(_ context.Context, f models.OrderFilter, page, limit int) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filter(f)
	sort.SliceStable(all, func(i, j int) bool { return all[i].OrderDate.After(all[j].OrderDate) })
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *mockOrderRepo) FindByFilter(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.filter(f), nil
}

func (m *mockOrderRepo) CountByStatus(_ context.Context, f models.OrderFilter) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int64)
	for _, o := range m.filter(f) {
		counts[o.Status]++
	}
	return counts, nil
}

func (m *mockOrderRepo) Count(_ context.Context, f models.OrderFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.filter(f))), nil
}

func (m *mockOrderRepo) Recent(_ context.Context, limit int) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.filter(models.OrderFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *mockOrderRepo) UserIDsWithOrderOn(_ context.Context, d time.Time) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for _, o := range m.filter(models.OrderFilter{DateFrom: &d, DateTo: &d}) {
		ids = append(ids, o.UserID)
	}
	return ids, nil
}

// --- User repository ---

type mockUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*models.User)}
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) add(first, phone string) *models.User {
	u := &models.User{
		ID:          uuid.New(),
		Email:       first + "@example.com",
		FirstName:   first,
		LastName:    "Tester",
		PhoneNumber: phone,
		Role:        models.RoleUser,
		IsActive:    true,
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return &mockDuplicateError{}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, &mockNotFoundError{}
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, &mockNotFoundError{}
}

func (m *mockUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.User, error) {
	var result []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) FindAll(_ context.Context, _, _ int) ([]models.User, int64, error) {
	var result []models.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) FindActive(_ context.Context) ([]models.User, error) {
	var result []models.User
	for _, u := range m.users {
		if u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FirstName < result[j].FirstName })
	return result, nil
}

func (m *mockUserRepo) CountActive(ctx context.Context) (int64, error) {
	active, _ := m.FindActive(ctx)
	return int64(len(active)), nil
}

func (m *mockUserRepo) Update(_ context.Context, u *models.User) error {
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

// --- Dispatch repository ---

type mockDispatchRepo struct {
	reminders map[uuid.UUID]*models.Reminder
	summaries []models.RestaurantOrderSummary
}

func newMockDispatchRepo() *mockDispatchRepo {
	return &mockDispatchRepo{reminders: make(map[uuid.UUID]*models.Reminder)}
}

var _ repository.DispatchRepository = (*mockDispatchRepo)(nil)

func (m *mockDispatchRepo) CreateReminder(_ context.Context, r *models.Reminder) error {
	r.ID = uuid.New()
	cp := *r
	m.reminders[r.ID] = &cp
	return nil
}

func (m *mockDispatchRepo) UpdateReminder(_ context.Context, r *models.Reminder) error {
	cp := *r
	m.reminders[r.ID] = &cp
	return nil
}

func (m *mockDispatchRepo) ListReminders(_ context.Context, _, _ int) ([]models.Reminder, int64, error) {
	var result []models.Reminder
	for _, r := range m.reminders {
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (m *mockDispatchRepo) CreateSummary(_ context.Context, s *models.RestaurantOrderSummary) error {
	s.ID = uuid.New()
	m.summaries = append(m.summaries, *s)
	return nil
}

// --- Senders ---

type sentTemplate struct {
	To       string
	Template string
	Params   []string
}

type mockWhatsApp struct {
	sent []sentTemplate
}

func (m *mockWhatsApp) SendTemplate(_ context.Context, to, template string, params []string) (sender.SendResult, error) {
	m.sent = append(m.sent, sentTemplate{To: to, Template: template, Params: params})
	return sender.SendResult{MessageID: "wamid", SentAt: time.Now()}, nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type mockEmail struct {
	sent []sentEmail
	err  error
}

func (m *mockEmail) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	if m.err != nil {
		return sender.SendResult{}, m.err
	}
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return sender.SendResult{MessageID: "smtp", SentAt: time.Now()}, nil
}

// --- Event publisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (m *mockPublisher) PublishOrderEvent(_ context.Context, e models.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// --- Fixture ---

// fixture wires services over in-memory repositories with today fixed to Wednesday 2030-03-13.
type fixture struct {
	clock        services.FixedClock
	restaurants  *mockRestaurantRepo
	menus        *mockMenuRepo
	orders       *mockOrderRepo
	users        *mockUserRepo
	records      *mockDispatchRepo
	publisher    *mockPublisher
	availability services.AvailabilityService
	menuSvc      services.MenuService
	orderSvc     services.OrderService
}

func newFixture() *fixture {
	f := &fixture{
		clock:       services.FixedClock{Date: date("2030-03-13")},
		restaurants: newMockRestaurantRepo(),
		orders:      newMockOrderRepo(),
		users:       newMockUserRepo(),
		records:     newMockDispatchRepo(),
		publisher:   &mockPublisher{},
	}
	f.menus = newMockMenuRepo(f.restaurants)
	logger := testLogger()
	f.availability = services.NewAvailabilityService(f.restaurants, logger)
	f.menuSvc = services.NewMenuService(f.menus, f.restaurants, nil, f.clock, logger)
	f.orderSvc = services.NewOrderService(f.orders, f.menus, f.availability, f.publisher, logger)
	return f
}
