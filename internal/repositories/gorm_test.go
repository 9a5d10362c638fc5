package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) repositories.Repositories {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMRepositories(db)
}

func TestGORMProductRepository_ReplaceAll(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Products.Create(ctx, &models.Product{ID: "stale", Name: "Stale", Price: 1}))
	require.NoError(t, repos.Products.ReplaceAll(ctx, []models.Product{
		{ID: "sprite", Name: "Sprite", Price: 50, Stock: 100},
		{ID: "thums_up", Name: "Thums Up", Price: 50, Stock: 100},
	}))

	products, err := repos.Products.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = repos.Products.GetByID(ctx, "stale")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMUserRepository(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	user := &models.User{Name: "Jane", Email: "jane@example.com", Password: "hash"}
	require.NoError(t, repos.Users.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	dup := &models.User{Name: "Jane 2", Email: "jane@example.com"}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), repositories.ErrDuplicate)

	cart := []models.CartItem{{ID: "sprite", Name: "Sprite", Price: 50, Quantity: 2}}
	require.NoError(t, repos.Users.UpdateCart(ctx, user.ID, cart))

	user.IsBlocked = true
	user.Phone = "9999999999"
	require.NoError(t, repos.Users.Update(ctx, user))

	got, err := repos.Users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, cart, got.Cart)
	assert.True(t, got.IsBlocked)
	assert.Equal(t, "9999999999", got.Phone)
	assert.Equal(t, "hash", got.Password)

	assert.ErrorIs(t, repos.Users.UpdateCart(ctx, "ghost", cart), repositories.ErrNotFound)
	_, err = repos.Users.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	n, err := repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGORMOrderRepository_List(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	orders := []*models.Order{
		{UserID: "u1", CustomerEmail: "jane@example.com", Status: models.OrderDelivered, Total: 520, CreatedAt: base},
		{CustomerEmail: "JANE@example.com", Status: models.OrderPending, Total: 80, CreatedAt: base.Add(time.Hour)},
		{UserID: "u2", CustomerEmail: "bob@example.com", Status: models.OrderCancelled, Total: 200, CreatedAt: base.Add(2 * time.Hour)},
		{CustomerEmail: "jane@example.com", Status: models.OrderCancelled, Total: 130, CreatedAt: base.Add(3 * time.Hour)},
	}
	for _, o := range orders {
		o.Items = []models.OrderItem{{ProductID: "sprite", Quantity: 1, Price: 50}}
		require.NoError(t, repos.Orders.Create(ctx, o))
	}

	all, err := repos.Orders.List(ctx, repositories.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, orders[3].ID, all[0].ID)
	assert.Equal(t, []models.OrderItem{{ProductID: "sprite", Quantity: 1, Price: 50}}, all[0].Items)

	exact, err := repos.Orders.List(ctx, repositories.OrderFilter{UserID: "u1", Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Len(t, exact, 2)

	folded, err := repos.Orders.List(ctx, repositories.OrderFilter{UserID: "u1", Email: "jane@example.com", EmailFold: true})
	require.NoError(t, err)
	assert.Len(t, folded, 3)

	active, err := repos.Orders.List(ctx, repositories.OrderFilter{Email: "jane@example.com", EmailFold: true, ExcludeStatus: models.OrderCancelled})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	recent, err := repos.Orders.List(ctx, repositories.OrderFilter{Since: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := repos.Orders.List(ctx, repositories.OrderFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestGORMOrderRepository_Update(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	order := &models.Order{CustomerEmail: "jane@example.com", Status: models.OrderOutForDelivery, DeliveryOTP: "4821", Total: 80}
	require.NoError(t, repos.Orders.Create(ctx, order))

	deliveredAt := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	order.Status = models.OrderDelivered
	order.DeliveredAt = &deliveredAt
	order.Total = 1
	require.NoError(t, repos.Orders.Update(ctx, order))

	got, err := repos.Orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, got.Status)
	require.NotNil(t, got.DeliveredAt)
	assert.True(t, deliveredAt.Equal(*got.DeliveredAt))
	assert.Equal(t, int64(80), got.Total)
	assert.Equal(t, "4821", got.DeliveryOTP)

	assert.ErrorIs(t, repos.Orders.Update(ctx, &models.Order{ID: "ghost"}), repositories.ErrNotFound)
}

func TestGORMReviewRepository(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Reviews.Create(ctx, &models.Review{UserID: "u1", OrderID: "o1", Rating: 5}))
	assert.ErrorIs(t, repos.Reviews.Create(ctx, &models.Review{UserID: "u1", OrderID: "o1", Rating: 4}), repositories.ErrDuplicate)

	got, err := repos.Reviews.GetByOrderID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)

	_, err = repos.Reviews.GetByOrderID(ctx, "o2")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMEventRepository(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	event := &models.Event{
		CustomerEmail: "ravi@example.com",
		EventDate:     time.Date(2025, 12, 20, 0, 0, 0, 0, time.UTC),
		Status:        models.EventPending,
		FoodItems:     []models.EventFoodItem{{ItemID: "kaju_barfi", Quantity: 10, Price: 200}},
		TotalAmount:   2000,
	}
	require.NoError(t, repos.Events.Create(ctx, event))

	event.Status = models.EventConfirmed
	require.NoError(t, repos.Events.Update(ctx, event))

	got, err := repos.Events.List(ctx, repositories.EventFilter{Email: "RAVI@example.com", EmailFold: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.EventConfirmed, got[0].Status)
	assert.Equal(t, event.FoodItems, got[0].FoodItems)

	none, err := repos.Events.List(ctx, repositories.EventFilter{ExcludeStatus: models.EventConfirmed})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGORMAdminRepository_UniqueEmail(t *testing.T) {
	repos := setupDB(t)
	ctx := context.Background()

	require.NoError(t, repos.Admins.Create(ctx, &models.Admin{Name: "Owner", Email: "admin@hotfood.in", Password: "hash"}))
	err := repos.Admins.Create(ctx, &models.Admin{Name: "Other", Email: "admin@hotfood.in", Password: "hash"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	count, err := repos.Admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
