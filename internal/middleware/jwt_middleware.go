package middleware

import (
	"errors"
	"strings"

	"hotfood/internal/models"
	"hotfood/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const (
	localUser  = "user"
	localAdmin = "admin"
)

var (
	errMissingHeader = errors.New("Authorization header is required")
	errHeaderFormat  = errors.New("Authorization header format must be 'Bearer <token>'")
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", errMissingHeader
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
		return "", errHeaderFormat
	}
	return parts[1], nil
}

// AuthRequired rejects requests without a valid customer token and stores the customer
// in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		user, err := authService.AuthenticateUser(c.UserContext(), tokenString)
		if err != nil {
			return rejectAuth(c, err)
		}

		c.Locals(localUser, user)
		return c.Next()
	}
}

// AdminRequired rejects requests without a valid admin token and stores the admin in the
// request locals.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		admin, err := authService.AuthenticateAdmin(c.UserContext(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrAdminNotFound) {
				log.Debugf("admin token rejected: %v", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Admin access required",
					"error":   err.Error(),
				})
			}
			return err
		}

		c.Locals(localAdmin, admin)
		return c.Next()
	}
}

// OptionalAuth stores the customer in the request locals when a valid customer token is
// present and lets every request through.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return c.Next()
		}
		user, err := authService.AuthenticateUser(c.UserContext(), tokenString)
		if err != nil {
			log.Debugf("continuing as guest: %v", err)
			return c.Next()
		}
		c.Locals(localUser, user)
		return c.Next()
	}
}

func rejectAuth(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAccountBlocked):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUserNotFound):
		log.Debugf("JWT validation failed: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
			"error":   err.Error(),
		})
	}
	return err
}

// CurrentUser returns the customer stored by AuthRequired or OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

// CurrentAdmin returns the admin stored by AdminRequired, or nil.
func CurrentAdmin(c *fiber.Ctx) *models.Admin {
	admin, _ := c.Locals(localAdmin).(*models.Admin)
	return admin
}
