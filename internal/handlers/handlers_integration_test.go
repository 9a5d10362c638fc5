package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"hotfood/internal/app"
	"hotfood/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

const (
	adminEmail    = "admin@hotfood.in"
	adminPassword = "admin123"
)

// setupApp builds the full HTTP stack over a private in-memory SQLite database with the
// default catalog and one admin account.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	store, _, err := database.OpenGORM(sqlite.Open(dsn))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	svcs := app.NewServices(app.ServiceDeps{
		Repos:     store.Repos,
		JWTSecret: "test_jwt_secret",
	})
	ctx := context.Background()
	require.NoError(t, svcs.Products.SeedIfEmpty(ctx))
	require.NoError(t, svcs.Auth.EnsureAdmin(ctx, "Admin", adminEmail, adminPassword))

	return app.NewApp(svcs, app.Options{
		CORSOrigins: "*",
		AccessLog:   io.Discard,
	})
}

// TestMain silences logging for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// call sends a JSON request and decodes the response into out when out is not nil.
func call(t *testing.T, a *fiber.App, method, path, token string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func register(t *testing.T, a *fiber.App, name, email string) string {
	t.Helper()
	var resp map[string]any
	status := call(t, a, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "password123",
	}, &resp)
	require.Equal(t, http.StatusCreated, status, resp)
	return resp["token"].(string)
}

func adminToken(t *testing.T, a *fiber.App) string {
	t.Helper()
	var resp map[string]any
	status := call(t, a, http.MethodPost, "/api/auth/admin-login", "", fiber.Map{
		"email": adminEmail, "password": adminPassword,
	}, &resp)
	require.Equal(t, http.StatusOK, status, resp)
	return resp["token"].(string)
}

func placeOrder(t *testing.T, a *fiber.App, token, email string) map[string]any {
	t.Helper()
	var resp struct {
		Order map[string]any `json:"order"`
	}
	status := call(t, a, http.MethodPost, "/api/orders", token, fiber.Map{
		"customerName":    "Jane",
		"customerEmail":   email,
		"customerPhone":   "9999999999",
		"deliveryAddress": "12 FC Road, Pune",
		"items": []fiber.Map{
			{"id": "gulab_jamun", "quantity": 2},
			{"id": "varan_batti", "quantity": 1},
		},
	}, &resp)
	require.Equal(t, http.StatusCreated, status)
	return resp.Order
}

func TestHealthAndFallback(t *testing.T) {
	a := setupApp(t)

	var health map[string]any
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/health", "", nil, &health))
	assert.Equal(t, "OK", health["status"])
	assert.Contains(t, health, "uptime")

	var missing map[string]any
	assert.Equal(t, http.StatusNotFound, call(t, a, http.MethodGet, "/api/does-not-exist", "", nil, &missing))
	assert.Equal(t, "Endpoint not found", missing["message"])
}

func TestAuthRegisterAndLogin(t *testing.T) {
	a := setupApp(t)
	token := register(t, a, "Jane", "Jane@Example.com")
	assert.NotEmpty(t, token)

	var dup map[string]any
	status := call(t, a, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "Jane Again", "email": "jane@example.com", "password": "password123",
	}, &dup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User already exists", dup["message"])

	var login map[string]any
	status = call(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "JANE@example.com", "password": "password123",
	}, &login)
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, login["token"])
	assert.Equal(t, []any{}, login["cart"])
	assert.Equal(t, "jane@example.com", login["user"].(map[string]any)["email"])

	var bad map[string]any
	status = call(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "jane@example.com", "password": "wrong",
	}, &bad)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", bad["message"])

	var me map[string]any
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/auth/me", token, nil, &me))
	assert.Equal(t, "Jane", me["name"])

	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/auth/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/auth/me", "garbage", nil, nil))
}

func TestRegisterValidation(t *testing.T) {
	a := setupApp(t)

	var resp map[string]any
	status := call(t, a, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"name": "J", "email": "not-an-email", "password": "123",
	}, &resp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", resp["message"])
	assert.Contains(t, resp["errors"], "Email")
}

func TestAdminRegistrationClosed(t *testing.T) {
	a := setupApp(t)

	var resp map[string]any
	status := call(t, a, http.MethodPost, "/api/auth/admin-register", "", fiber.Map{
		"name": "Intruder", "email": "intruder@example.com", "password": "password123",
	}, &resp)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Admin registration is closed", resp["message"])
}

func TestProductEndpoints(t *testing.T) {
	a := setupApp(t)

	var products []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/products", "", nil, &products))
	assert.Len(t, products, 6)

	var product map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/products/sprite", "", nil, &product))
	assert.Equal(t, float64(50), product["price"])

	assert.Equal(t, http.StatusNotFound, call(t, a, http.MethodGet, "/api/products/pizza", "", nil, nil))
}

func TestOrderLifecycle(t *testing.T) {
	a := setupApp(t)
	token := register(t, a, "Jane", "jane@example.com")
	admin := adminToken(t, a)

	order := placeOrder(t, a, token, "jane@example.com")
	orderID := order["_id"].(string)
	otp := order["deliveryOtp"].(string)
	assert.Equal(t, float64(520), order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.Len(t, otp, 4)

	var mine []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/orders/my-orders", token, nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, orderID, mine[0]["_id"])

	statusPath := "/api/admin/orders/" + orderID + "/status"
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodPut, statusPath, admin, fiber.Map{"status": "shipped"}, nil))

	var cancel map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodPut, "/api/orders/"+orderID+"/cancel", token, nil, &cancel))
	assert.Equal(t, "Cannot cancel order at this stage", cancel["message"])

	var backwards map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodPut, statusPath, admin, fiber.Map{"status": "confirmed"}, &backwards))
	assert.Equal(t, "Status transition not allowed", backwards["message"])

	wrongOTP := "1000"
	if otp == wrongOTP {
		wrongOTP = "1001"
	}
	var rejected map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodPut, statusPath, admin, fiber.Map{"status": "delivered", "otp": wrongOTP}, &rejected))
	assert.Equal(t, "Invalid OTP. Delivery cannot be verified.", rejected["message"])

	var delivered struct {
		Order map[string]any `json:"order"`
	}
	require.Equal(t, http.StatusOK, call(t, a, http.MethodPut, statusPath, admin, fiber.Map{"status": "delivered", "otp": otp}, &delivered))
	assert.Equal(t, "delivered", delivered.Order["status"])
	assert.NotEmpty(t, delivered.Order["deliveredAt"])

	review := fiber.Map{"orderId": orderID, "rating": 5, "comment": "Loved the jamuns"}
	var created map[string]any
	assert.Equal(t, http.StatusCreated, call(t, a, http.MethodPost, "/api/reviews", token, review, &created))
	assert.Equal(t, "Review submitted successfully", created["message"])

	var again map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodPost, "/api/reviews", token, review, &again))
	assert.Equal(t, "You have already reviewed this order", again["message"])

	var reviews []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/reviews", "", nil, &reviews))
	require.Len(t, reviews, 1)
	assert.Equal(t, "Jane", reviews[0]["userName"])
}

func TestGuestOrderIsOwnedByEmail(t *testing.T) {
	a := setupApp(t)

	order := placeOrder(t, a, "", "guest@example.com")
	orderID := order["_id"].(string)
	assert.NotContains(t, order, "user")

	other := register(t, a, "Bob", "bob@example.com")
	assert.Equal(t, http.StatusNotFound, call(t, a, http.MethodPut, "/api/orders/"+orderID+"/cancel", other, nil, nil))

	owner := register(t, a, "Guest", "Guest@Example.com")
	var cancel struct {
		Message string         `json:"message"`
		Order   map[string]any `json:"order"`
	}
	require.Equal(t, http.StatusOK, call(t, a, http.MethodPut, "/api/orders/"+orderID+"/cancel", owner, nil, &cancel))
	assert.Equal(t, "Order cancelled", cancel.Message)
	assert.Equal(t, "cancelled", cancel.Order["status"])
}

func TestOrderWithUnknownProduct(t *testing.T) {
	a := setupApp(t)

	var resp map[string]any
	status := call(t, a, http.MethodPost, "/api/orders", "", fiber.Map{
		"customerName":    "Jane",
		"customerEmail":   "jane@example.com",
		"customerPhone":   "9999999999",
		"deliveryAddress": "Pune",
		"items":           []fiber.Map{{"id": "pizza", "quantity": 1}},
	}, &resp)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Order contains an unknown product", resp["message"])
}

func TestOversizedQuantitiesRejected(t *testing.T) {
	a := setupApp(t)

	for _, qty := range []int64{1001, 46116860184273879} {
		status := call(t, a, http.MethodPost, "/api/orders", "", fiber.Map{
			"customerName":    "Jane",
			"customerEmail":   "jane@example.com",
			"customerPhone":   "9999999999",
			"deliveryAddress": "Pune",
			"items":           []fiber.Map{{"id": "varan_batti", "quantity": qty}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status, "order quantity %d", qty)

		status = call(t, a, http.MethodPost, "/api/events", "", fiber.Map{
			"customerName":  "Ravi",
			"customerEmail": "ravi@example.com",
			"customerPhone": "9876543210",
			"eventType":     "Wedding",
			"eventDate":     "2025-12-20",
			"guests":        150,
			"eventAddress":  "Nashik",
			"foodItems":     []fiber.Map{{"itemId": "varan_batti", "quantity": qty}},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, status, "event quantity %d", qty)
	}

	admin := adminToken(t, a)
	var orders []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/admin/orders", admin, nil, &orders))
	assert.Empty(t, orders)
}

func TestCartSync(t *testing.T) {
	a := setupApp(t)
	token := register(t, a, "Jane", "jane@example.com")

	cart := []fiber.Map{
		{"id": "sprite", "name": "Sprite", "price": 50, "quantity": 2},
		{"id": "thums_up", "name": "Thums Up", "price": 50, "quantity": 0},
	}
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodPut, "/api/cart", token, fiber.Map{"cart": cart}, nil))

	var saved []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/cart", token, nil, &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, "sprite", saved[0]["id"])
	assert.Equal(t, float64(2), saved[0]["quantity"])

	var login map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "jane@example.com", "password": "password123",
	}, &login))
	assert.Len(t, login["cart"], 1)

	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/cart", "", nil, nil))
}

func TestEventBooking(t *testing.T) {
	a := setupApp(t)
	admin := adminToken(t, a)

	var booked struct {
		Event map[string]any `json:"event"`
	}
	status := call(t, a, http.MethodPost, "/api/events", "", fiber.Map{
		"customerName":  "Ravi",
		"customerEmail": "ravi@example.com",
		"customerPhone": "9876543210",
		"eventType":     "Wedding",
		"eventDate":     "2025-12-20",
		"guests":        150,
		"eventAddress":  "Nashik",
		"foodItems": []fiber.Map{
			{"itemId": "kaju_barfi", "itemName": "Free Barfi", "quantity": 10, "price": 1},
			{"itemId": "paneer_tikka", "itemName": "Paneer Tikka", "quantity": 3},
		},
	}, &booked)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(2000), booked.Event["totalAmount"])
	foodItems := booked.Event["foodItems"].([]any)
	require.Len(t, foodItems, 2)
	assert.Equal(t, "Kaju Barfi", foodItems[0].(map[string]any)["itemName"])
	assert.Equal(t, "pending", booked.Event["status"])

	eventID := booked.Event["_id"].(string)
	path := "/api/admin/events/" + eventID + "/status"
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodPut, path, admin, fiber.Map{"status": "completed"}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodPut, path, admin, fiber.Map{"status": "cancelled"}, nil))

	var stats map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/admin/dashboard-stats", admin, nil, &stats))
	assert.Equal(t, float64(2000), stats["totalRevenue"])
	assert.Equal(t, float64(1), stats["totalEvents"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := setupApp(t)
	token := register(t, a, "Jane", "jane@example.com")

	var resp map[string]any
	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/admin/orders", token, nil, &resp))
	assert.Equal(t, "Admin access required", resp["message"])
	assert.Equal(t, http.StatusUnauthorized, call(t, a, http.MethodGet, "/api/admin/orders", "", nil, nil))

	admin := adminToken(t, a)
	var verify map[string]any
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/auth/verify-admin", admin, nil, &verify))
	assert.Equal(t, true, verify["valid"])
}

func TestBlockedCustomer(t *testing.T) {
	a := setupApp(t)
	token := register(t, a, "Jane", "jane@example.com")
	admin := adminToken(t, a)

	var customers []map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/admin/customers", admin, nil, &customers))
	require.Len(t, customers, 1)
	id := customers[0]["_id"].(string)

	var blocked map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodPut, "/api/admin/customers/"+id+"/block", admin, fiber.Map{"isBlocked": true}, &blocked))
	assert.Equal(t, "User Blocked Successfully", blocked["message"])

	assert.Equal(t, http.StatusForbidden, call(t, a, http.MethodGet, "/api/auth/me", token, nil, nil))

	var login map[string]any
	assert.Equal(t, http.StatusForbidden, call(t, a, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "jane@example.com", "password": "password123",
	}, &login))
	assert.Equal(t, "Your account has been BLOCKED by Admin.", login["message"])

	require.Equal(t, http.StatusOK, call(t, a, http.MethodPut, "/api/admin/customers/"+id+"/block", admin, fiber.Map{"isBlocked": false}, nil))
	assert.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/auth/me", token, nil, nil))
}

func TestAdminReports(t *testing.T) {
	a := setupApp(t)
	admin := adminToken(t, a)
	placeOrder(t, a, "", "guest@example.com")

	var report map[string]any
	require.Equal(t, http.StatusOK, call(t, a, http.MethodGet, "/api/admin/reports?period=week", admin, nil, &report))
	assert.Equal(t, "week", report["period"])
	assert.Len(t, report["popularProducts"], 2)

	var bad map[string]any
	assert.Equal(t, http.StatusBadRequest, call(t, a, http.MethodGet, "/api/admin/reports?period=decade", admin, nil, &bad))
	assert.Equal(t, "Period must be week, month or year", bad["message"])
}
