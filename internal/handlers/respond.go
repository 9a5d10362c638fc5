package handlers

import (
	"errors"
	"fmt"

	"hotfood/internal/services"
	"hotfood/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// errorStatus maps domain errors to HTTP status codes. The first match wins.
var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrEmptyOrder, fiber.StatusBadRequest},
	{services.ErrInvalidQuantity, fiber.StatusBadRequest},
	{services.ErrUnknownItem, fiber.StatusBadRequest},
	{services.ErrInvalidStatus, fiber.StatusBadRequest},
	{services.ErrInvalidRating, fiber.StatusBadRequest},
	{services.ErrInvalidDate, fiber.StatusBadRequest},
	{services.ErrInvalidPeriod, fiber.StatusBadRequest},
	{services.ErrUserExists, fiber.StatusBadRequest},
	{services.ErrAdminExists, fiber.StatusBadRequest},
	{storage.ErrInvalidDataURL, fiber.StatusBadRequest},

	{services.ErrInvalidCredentials, fiber.StatusBadRequest},
	{services.ErrFederatedAccount, fiber.StatusBadRequest},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{services.ErrFederatedLogin, fiber.StatusUnauthorized},
	{services.ErrAccountBlocked, fiber.StatusForbidden},
	{services.ErrAdminSignupClosed, fiber.StatusForbidden},

	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrAdminNotFound, fiber.StatusNotFound},
	{services.ErrProductNotFound, fiber.StatusNotFound},
	{services.ErrOrderNotFound, fiber.StatusNotFound},
	{services.ErrEventNotFound, fiber.StatusNotFound},
	{services.ErrCustomerNotFound, fiber.StatusNotFound},

	{services.ErrInvalidOTP, fiber.StatusBadRequest},
	{services.ErrCannotCancel, fiber.StatusBadRequest},
	{services.ErrInvalidTransition, fiber.StatusBadRequest},
	{services.ErrNotDelivered, fiber.StatusBadRequest},
	{services.ErrAlreadyReviewed, fiber.StatusBadRequest},
	{services.ErrReviewWindowClosed, fiber.StatusBadRequest},
}

// respondError writes a known domain error as {"message", "error"} with its status.
// Anything else is logged with context and passed on to the app error handler.
func respondError(c *fiber.Ctx, err error, action string) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			body := fiber.Map{"message": e.err.Error()}
			if err.Error() != e.err.Error() {
				body["error"] = err.Error()
			}
			return c.Status(e.status).JSON(body)
		}
	}
	log.Errorf("%s: %v", action, err)
	return err
}

// parseBody decodes the request body into dst and validates it. It returns the 400
// response body on failure and nil on success.
func parseBody(c *fiber.Ctx, validate *validator.Validate, dst any) fiber.Map {
	if err := c.BodyParser(dst); err != nil {
		return fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		}
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			}
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		}
	}
	return nil
}
