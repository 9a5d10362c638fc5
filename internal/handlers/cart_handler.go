package handlers

import (
	"hotfood/internal/middleware"
	"hotfood/internal/models"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the persisted cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Put("/", h.HandleReplaceCart)
}

// ReplaceCartRequest is the full cart pushed by the client.
type ReplaceCartRequest struct {
	Cart []models.CartItem `json:"cart" validate:"dive"`
}

// HandleGetCart returns the saved cart of the authenticated customer.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err, "get cart")
	}
	return c.JSON(cart)
}

// HandleReplaceCart overwrites the saved cart.
func (h *CartHandler) HandleReplaceCart(c *fiber.Ctx) error {
	var req ReplaceCartRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	cart, err := h.service.ReplaceCart(c.UserContext(), middleware.CurrentUser(c).ID, req.Cart)
	if err != nil {
		return respondError(c, err, "update cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart updated",
		"cart":    cart,
	})
}
