package handlers

import (
	"hotfood/internal/models"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the back-office HTTP API.
type AdminHandler struct {
	adminService   *services.AdminService
	orderService   *services.OrderService
	eventService   *services.EventService
	productService *services.ProductService
	validate       *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService, orderService *services.OrderService, eventService *services.EventService, productService *services.ProductService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		orderService:   orderService,
		eventService:   eventService,
		productService: productService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers every admin route behind adminAuth.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, adminAuth fiber.Handler) {
	adminRoutes := router.Group("/admin", adminAuth)
	adminRoutes.Get("/dashboard-stats", h.HandleDashboardStats)
	adminRoutes.Get("/reports", h.HandleReports)

	adminRoutes.Get("/orders", h.HandleGetOrders)
	adminRoutes.Get("/orders/:id", h.HandleGetOrder)
	adminRoutes.Put("/orders/:id/status", h.HandleUpdateOrderStatus)

	adminRoutes.Get("/events", h.HandleGetEvents)
	adminRoutes.Get("/events/:id", h.HandleGetEvent)
	adminRoutes.Put("/events/:id/status", h.HandleUpdateEventStatus)

	adminRoutes.Get("/customers", h.HandleGetCustomers)
	adminRoutes.Get("/customers/:id", h.HandleGetCustomer)
	adminRoutes.Put("/customers/:id/block", h.HandleBlockCustomer)

	adminRoutes.Post("/seed-products", h.HandleSeedProducts)
}

// OrderStatusRequest moves an order. OTP is required when Status is delivered.
type OrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
	OTP    string             `json:"otp"`
}

// EventStatusRequest moves a booking.
type EventStatusRequest struct {
	Status models.EventStatus `json:"status" validate:"required"`
}

// BlockRequest sets the blocked flag of a customer.
type BlockRequest struct {
	IsBlocked bool `json:"isBlocked"`
}

// HandleDashboardStats returns headline counts and revenue.
func (h *AdminHandler) HandleDashboardStats(c *fiber.Ctx) error {
	stats, err := h.adminService.DashboardStats(c.UserContext())
	if err != nil {
		return respondError(c, err, "dashboard stats")
	}
	return c.JSON(stats)
}

// HandleReports returns the activity report for ?period=week|month|year.
func (h *AdminHandler) HandleReports(c *fiber.Ctx) error {
	report, err := h.adminService.Reports(c.UserContext(), c.Query("period", "month"))
	if err != nil {
		return respondError(c, err, "reports")
	}
	return c.JSON(report)
}

// HandleGetOrders lists every order, newest first.
func (h *AdminHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "list orders")
	}
	return c.JSON(orders)
}

// HandleGetOrder returns a single order.
func (h *AdminHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus advances or cancels an order.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req OrderStatusRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	order, err := h.orderService.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.OTP)
	if err != nil {
		return respondError(c, err, "update order status")
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}

// HandleGetEvents lists every booking, newest first.
func (h *AdminHandler) HandleGetEvents(c *fiber.Ctx) error {
	events, err := h.eventService.ListAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "list events")
	}
	return c.JSON(events)
}

// HandleGetEvent returns a single booking.
func (h *AdminHandler) HandleGetEvent(c *fiber.Ctx) error {
	event, err := h.eventService.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get event")
	}
	return c.JSON(event)
}

// HandleUpdateEventStatus moves a booking along its lifecycle.
func (h *AdminHandler) HandleUpdateEventStatus(c *fiber.Ctx) error {
	var req EventStatusRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	event, err := h.eventService.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err, "update event status")
	}
	return c.JSON(fiber.Map{
		"message": "Event status updated successfully",
		"event":   event,
	})
}

// HandleGetCustomers lists customers with their spending.
func (h *AdminHandler) HandleGetCustomers(c *fiber.Ctx) error {
	customers, err := h.adminService.ListCustomers(c.UserContext())
	if err != nil {
		return respondError(c, err, "list customers")
	}
	return c.JSON(customers)
}

// HandleGetCustomer returns a customer with recent history.
func (h *AdminHandler) HandleGetCustomer(c *fiber.Ctx) error {
	detail, err := h.adminService.CustomerDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "get customer")
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"customer": detail.Customer,
		"orders":   detail.Orders,
		"events":   detail.Events,
	})
}

// HandleBlockCustomer blocks or unblocks a customer.
func (h *AdminHandler) HandleBlockCustomer(c *fiber.Ctx) error {
	var req BlockRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	user, err := h.adminService.SetBlocked(c.UserContext(), c.Params("id"), req.IsBlocked)
	if err != nil {
		return respondError(c, err, "block customer")
	}

	message := "User Unblocked Successfully"
	if req.IsBlocked {
		message = "User Blocked Successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

// HandleSeedProducts replaces the catalog with the default menu.
func (h *AdminHandler) HandleSeedProducts(c *fiber.Ctx) error {
	if err := h.productService.Seed(c.UserContext()); err != nil {
		return respondError(c, err, "seed products")
	}
	return c.JSON(fiber.Map{
		"message": "Products seeded successfully",
		"count":   len(services.DefaultCatalog()),
	})
}
