// Package storefront is a Go client for the hotfood API with a cart-keeping session.
package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CartItem is one line of the cart, as stored by the server.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// User is the public profile returned on login.
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Image   string `json:"image"`
}

// OrderItem is a line of a placed order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// Order is a placed order.
type Order struct {
	ID          string      `json:"_id"`
	Items       []OrderItem `json:"items"`
	Total       int64       `json:"total"`
	DeliveryFee int64       `json:"deliveryFee"`
	Status      string      `json:"status"`
	DeliveryOTP string      `json:"deliveryOtp"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Checkout carries the customer details sent with an order.
type Checkout struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	DeliveryAddress string `json:"deliveryAddress"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
}

type orderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type placeOrderRequest struct {
	Checkout
	Items []orderLine `json:"items"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
}

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Client calls the HTTP API. It holds no session state.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a Client for the API rooted at baseURL, e.g. "http://localhost:8080/api".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: 10 * time.Second,
	}
}

// Login signs in with email and password.
func (c *Client) Login(email, password string) (*AuthResult, error) {
	var res AuthResult
	a := fiber.Post(c.baseURL + "/auth/login").JSON(fiber.Map{"email": email, "password": password})
	if err := c.do(a, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoginWithGoogle signs in with a Google ID token.
func (c *Client) LoginWithGoogle(idToken string) (*AuthResult, error) {
	var res AuthResult
	a := fiber.Post(c.baseURL + "/auth/google").JSON(fiber.Map{"token": idToken})
	if err := c.do(a, "", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout notifies the server. Tokens stay valid until they expire.
func (c *Client) Logout(token string) error {
	return c.do(fiber.Post(c.baseURL+"/auth/logout"), token, nil)
}

// GetCart returns the cart saved for token's account.
func (c *Client) GetCart(token string) ([]CartItem, error) {
	var cart []CartItem
	if err := c.do(fiber.Get(c.baseURL+"/cart"), token, &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// PutCart replaces the saved cart.
func (c *Client) PutCart(token string, cart []CartItem) error {
	if cart == nil {
		cart = []CartItem{}
	}
	a := fiber.Put(c.baseURL + "/cart").JSON(fiber.Map{"cart": cart})
	return c.do(a, token, nil)
}

// PlaceOrder submits an order for items. token may be empty for guest checkout.
func (c *Client) PlaceOrder(token string, checkout Checkout, items []CartItem) (*Order, error) {
	req := placeOrderRequest{Checkout: checkout, Items: make([]orderLine, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, orderLine{ID: item.ID, Quantity: item.Quantity})
	}
	var res struct {
		Order Order `json:"order"`
	}
	if err := c.do(fiber.Post(c.baseURL+"/orders").JSON(req), token, &res); err != nil {
		return nil, err
	}
	return &res.Order, nil
}

// do sends the request and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(a *fiber.Agent, token string, out any) error {
	a.Timeout(c.timeout)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("storefront: request failed: %w", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return &APIError{Status: code, Message: msg.Message}
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("storefront: failed to decode response: %w", err)
	}
	return nil
}
