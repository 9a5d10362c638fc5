package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves the handful of endpoints a Session talks to.
type fakeAPI struct {
	mu         sync.Mutex
	serverCart []CartItem
	cartPuts   [][]CartItem
	orders     []placeOrderRequest
	logouts    int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"_id": "u1", "name": "Jane", "email": body["email"]},
		})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Logged out successfully"})
	})
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		cart := f.serverCart
		if cart == nil {
			cart = []CartItem{}
		}
		_ = json.NewEncoder(w).Encode(cart)
	})
	mux.HandleFunc("PUT /api/cart", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Cart []CartItem `json:"cart"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.serverCart = body.Cart
		f.cartPuts = append(f.cartPuts, body.Cart)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Cart updated", "cart": body.Cart})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var body placeOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.orders = append(f.orders, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Order placed",
			"order":   map[string]any{"_id": "o1", "status": "pending", "total": 520, "deliveryOtp": "4821"},
		})
	})
	return mux
}

func newTestSession(t *testing.T) (*Session, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewSession(NewClient(srv.URL + "/api")), api
}

func TestAnonymousCartArithmetic(t *testing.T) {
	s, api := newTestSession(t)

	require.NoError(t, s.AddToCart(CartItem{ID: "gulab_jamun", Name: "Gulab Jamun", Price: 120}))
	require.NoError(t, s.AddToCart(CartItem{ID: "gulab_jamun", Name: "Gulab Jamun", Price: 120}))
	require.NoError(t, s.AddToCart(CartItem{ID: "varan_batti", Name: "Varan Batti", Price: 250, Quantity: 1}))

	assert.Equal(t, int64(490), s.Total())
	assert.Equal(t, 3, s.Count())
	assert.Len(t, s.Cart(), 2)
	assert.Empty(t, api.cartPuts, "anonymous sessions never sync")

	require.NoError(t, s.SetQuantity("gulab_jamun", 0))
	assert.Equal(t, int64(250), s.Total())
	assert.Len(t, s.Cart(), 1)

	require.NoError(t, s.Remove("varan_batti"))
	assert.Empty(t, s.Cart())
}

func TestLoginAdoptsNonEmptyServerCart(t *testing.T) {
	s, api := newTestSession(t)
	api.serverCart = []CartItem{{ID: "sprite", Name: "Sprite", Price: 50, Quantity: 2}}
	require.NoError(t, s.AddToCart(CartItem{ID: "kaju_barfi", Price: 200}))

	require.NoError(t, s.Login("jane@example.com", "secret"))

	assert.Equal(t, "tok-1", s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, "Jane", s.User().Name)
	assert.Equal(t, []CartItem{{ID: "sprite", Name: "Sprite", Price: 50, Quantity: 2}}, s.Cart())
}

func TestLoginPushesLocalCartWhenServerCartEmpty(t *testing.T) {
	s, api := newTestSession(t)
	require.NoError(t, s.AddToCart(CartItem{ID: "kaju_barfi", Price: 200}))

	require.NoError(t, s.Login("jane@example.com", "secret"))

	assert.Len(t, s.Cart(), 1)
	require.Len(t, api.cartPuts, 1)
	assert.Equal(t, "kaju_barfi", api.cartPuts[0][0].ID)
}

func TestLoginFailure(t *testing.T) {
	s, _ := newTestSession(t)

	err := s.Login("jane@example.com", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Empty(t, s.Token())
}

func TestAuthenticatedMutationsSyncWholeCart(t *testing.T) {
	s, api := newTestSession(t)
	require.NoError(t, s.Login("jane@example.com", "secret"))

	require.NoError(t, s.AddToCart(CartItem{ID: "sprite", Price: 50}))
	require.NoError(t, s.AddToCart(CartItem{ID: "thums_up", Price: 50}))
	require.NoError(t, s.SetQuantity("sprite", 3))
	require.NoError(t, s.SetQuantity("thums_up", -1))

	require.Len(t, api.cartPuts, 4)
	assert.Equal(t, []CartItem{{ID: "sprite", Price: 50, Quantity: 3}}, api.cartPuts[3])
	assert.Equal(t, api.serverCart, s.Cart())
}

func TestLogoutResetsSession(t *testing.T) {
	s, api := newTestSession(t)
	require.NoError(t, s.Login("jane@example.com", "secret"))
	require.NoError(t, s.AddToCart(CartItem{ID: "sprite", Price: 50}))

	s.Logout()

	assert.Empty(t, s.Token())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Cart())
	assert.Equal(t, 1, api.logouts)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	s, api := newTestSession(t)
	require.NoError(t, s.Login("jane@example.com", "secret"))
	require.NoError(t, s.AddToCart(CartItem{ID: "gulab_jamun", Price: 120, Quantity: 2}))
	require.NoError(t, s.AddToCart(CartItem{ID: "varan_batti", Price: 250}))

	order, err := s.PlaceOrder(Checkout{CustomerName: "Jane", CustomerEmail: "jane@example.com", CustomerPhone: "99", DeliveryAddress: "Pune"})

	require.NoError(t, err)
	assert.Equal(t, int64(520), order.Total)
	assert.Empty(t, s.Cart())
	require.Len(t, api.orders, 1)
	assert.Equal(t, []orderLine{{ID: "gulab_jamun", Quantity: 2}, {ID: "varan_batti", Quantity: 1}}, api.orders[0].Items)
	assert.Empty(t, api.serverCart)
}
