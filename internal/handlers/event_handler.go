package handlers

import (
	"hotfood/internal/middleware"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// EventHandler handles HTTP requests for catering bookings.
type EventHandler struct {
	service  *services.EventService
	validate *validator.Validate
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the booking routes.
func (h *EventHandler) RegisterRoutes(router fiber.Router, auth, optionalAuth fiber.Handler) {
	eventRoutes := router.Group("/events")
	eventRoutes.Post("/", optionalAuth, h.HandleCreateEvent)
	eventRoutes.Get("/my-events", auth, h.HandleGetMyEvents)
}

// HandleCreateEvent books a catering event.
func (h *EventHandler) HandleCreateEvent(c *fiber.Ctx) error {
	var req services.BookEventInput
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	var userID string
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}

	event, err := h.service.Book(c.UserContext(), req, userID)
	if err != nil {
		return respondError(c, err, "book event")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event booking submitted successfully! We will contact you within 24 hours.",
		"event":   event,
	})
}

// HandleGetMyEvents lists the authenticated customer's bookings, newest first.
func (h *EventHandler) HandleGetMyEvents(c *fiber.Ctx) error {
	events, err := h.service.ListForCustomer(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err, "list customer events")
	}
	return c.JSON(events)
}
