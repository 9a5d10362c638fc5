package handlers

import (
	"hotfood/internal/middleware"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes. Listing is public.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Get("/", h.HandleGetReviews)
	reviewRoutes.Post("/", auth, h.HandleCreateReview)
}

// HandleCreateReview submits a review for a delivered order.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	var req services.CreateReviewInput
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	review, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, err, "create review")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// HandleGetReviews lists every review, newest first.
func (h *ReviewHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err, "list reviews")
	}
	return c.JSON(reviews)
}
