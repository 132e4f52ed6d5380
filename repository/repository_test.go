package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"meal-service/models"
	"meal-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, repository.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, repository.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, repository.IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "uq_user_order_date"`)))
	assert.False(t, repository.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, repository.IsUniqueViolation(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, repository.IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, repository.IsNotFound(errors.New("record not found")))
	assert.False(t, repository.IsNotFound(errors.New("timeout")))
	assert.False(t, repository.IsNotFound(nil))
}

func TestRestaurantCreate_WritesAvailability(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRestaurantRepository(gormDB)

	restaurant := &models.Restaurant{ID: uuid.New(), Name: "Trattoria", IsActive: true}

	availabilityRows := sqlmock.NewRows([]string{"id"})
	for i := 0; i < 7; i++ {
		availabilityRows.AddRow(uuid.New())
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "restaurants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(restaurant.ID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "restaurant_availability"`)).
		WillReturnRows(availabilityRows)
	mock.ExpectCommit()

	err := repo.Create(context.Background(), restaurant, models.DefaultWeekdays)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantUpsertAvailability_OnConflict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRestaurantRepository(gormDB)

	rows := sqlmock.NewRows([]string{"id"})
	for i := 0; i < 7; i++ {
		rows.AddRow(uuid.New())
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "restaurant_availability" .* ON CONFLICT \("restaurant_id","weekday"\) DO UPDATE`).
		WillReturnRows(rows)
	mock.ExpectCommit()

	err := repo.UpsertAvailability(context.Background(), uuid.New(), []int{0, 2, 4})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestaurantFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRestaurantRepository(gormDB)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurants"`)).
		WillReturnRows(sqlmock.NewRows([]string{}))

	r, err := repo.FindByID(context.Background(), id)
	assert.Error(t, err)
	assert.True(t, repository.IsNotFound(err))
	assert.Nil(t, r)
}

func TestRestaurantFindAvailabilityForWeekday_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormRestaurantRepository(gormDB)

	restaurantID := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "restaurant_id", "weekday", "is_available", "created_at", "updated_at"}).
		AddRow(uuid.New(), restaurantID, 2, true, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "restaurant_availability"`)).
		WillReturnRows(rows)

	entry, err := repo.FindAvailabilityForWeekday(context.Background(), restaurantID, 2)
	assert.NoError(t, err)
	assert.True(t, entry.IsAvailable)
	assert.Equal(t, 2, entry.Weekday)
}

func TestMenuCreateSuperseding_DeactivatesThenInserts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormMenuRepository(gormDB)

	menu := &models.Menu{
		ID:             uuid.New(),
		RestaurantID:   uuid.New(),
		Name:           "Week 12",
		AvailableFrom:  time.Date(2030, 3, 18, 0, 0, 0, 0, time.UTC),
		AvailableUntil: time.Date(2030, 3, 22, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "menus" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "menus"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(menu.ID))
	mock.ExpectCommit()

	err := repo.CreateSuperseding(context.Background(), menu)
	assert.NoError(t, err)
	assert.True(t, menu.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenuCreateSuperseding_RollsBackOnInsertError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormMenuRepository(gormDB)

	menu := &models.Menu{ID: uuid.New(), RestaurantID: uuid.New(), Name: "Broken"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "menus" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "menus"`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := repo.CreateSuperseding(context.Background(), menu)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateWithItems_Transaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	orderID := uuid.New()
	order := &models.Order{
		ID:           orderID,
		UserID:       uuid.New(),
		MenuID:       uuid.New(),
		RestaurantID: uuid.New(),
		OrderDate:    time.Date(2030, 3, 18, 0, 0, 0, 0, time.UTC),
		Status:       models.OrderStatusPending,
		TotalAmount:  decimal.RequireFromString("25.98"),
		Items: []models.OrderItem{
			{ID: uuid.New(), MenuItemID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("12.99")},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(order.Items[0].ID))
	mock.ExpectCommit()

	err := repo.CreateWithItems(context.Background(), order)
	assert.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, orderID, order.Items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCreateWithItems_DuplicateRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.Order{ID: uuid.New(), UserID: uuid.New(), Status: models.OrderStatusPending}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), order)
	assert.True(t, repository.IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderReplaceItems_Transaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := &models.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("12.99"),
	}
	items := []models.OrderItem{{ID: uuid.New(), MenuItemID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("12.99")}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_items"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(items[0].ID))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceItems(context.Background(), order, items)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderCountByStatus(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow(models.OrderStatusPending, 3).
		AddRow(models.OrderStatusCancelled, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT status, COUNT(*) AS count FROM "orders"`)).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background(), models.OrderFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), counts[models.OrderStatusPending])
	assert.Equal(t, int64(1), counts[models.OrderStatusCancelled])
}

func TestDispatchListReminders(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormDispatchRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reminders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reminders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "order_date", "reminder_type", "status", "created_at", "updated_at"}).
			AddRow(uuid.New(), uuid.New(), now, models.ReminderTypeWhatsApp, models.ReminderStatusSent, now, now))

	reminders, total, err := repo.ListReminders(context.Background(), 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, reminders, 1)
}

func TestMotdUpsert_OnConflict(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormMotdRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "motd_options" .* ON CONFLICT \("restaurant_id","weekday"\) DO UPDATE SET "option_text"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), &models.MotdOption{RestaurantID: uuid.New(), Weekday: 2, OptionText: "Risotto"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMotdDelete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormMotdRepository(gormDB)
	restaurantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "motd_options" WHERE restaurant_id = $1 AND weekday = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), restaurantID, 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
