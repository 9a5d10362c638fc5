package handlers

import (
	"errors"

	"hotfood/internal/middleware"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for customer orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Placing an order only needs optionalAuth;
// listing and cancelling need auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, optionalAuth fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", optionalAuth, h.HandleCreateOrder)
	orderRoutes.Get("/my-orders", auth, h.HandleGetMyOrders)
	orderRoutes.Put("/:id/cancel", auth, h.HandleCancelOrder)
}

// HandleCreateOrder places a new order. A valid customer token links the order to the account.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderInput
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	var userID string
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	order, err := h.service.PlaceOrder(c.UserContext(), req, userID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Order contains an unknown product",
				"error":   err.Error(),
			})
		}
		return respondError(c, err, "place order")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed",
		"order":   order,
	})
}

// HandleGetMyOrders lists the authenticated customer's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForCustomer(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "list customer orders")
	}
	return c.JSON(orders)
}

// HandleCancelOrder cancels one of the authenticated customer's orders.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	order, err := h.service.CancelForCustomer(c.UserContext(), middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "cancel order")
	}
	return c.JSON(fiber.Map{
		"message": "Order cancelled",
		"order":   order,
	})
}
