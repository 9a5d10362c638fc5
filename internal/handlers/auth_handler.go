package handlers

import (
	"errors"

	"hotfood/internal/middleware"
	"hotfood/internal/models"
	"hotfood/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. limit guards the credential
// endpoints and may be nil.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	if limit == nil {
		limit = func(c *fiber.Ctx) error { return c.Next() }
	}
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", limit, h.HandleRegister)
	authRoutes.Post("/login", limit, h.HandleLogin)
	authRoutes.Post("/google", limit, h.HandleGoogleLogin)
	authRoutes.Post("/admin-register", limit, h.HandleAdminRegister)
	authRoutes.Post("/admin-login", limit, h.HandleAdminLogin)

	requireUser := middleware.AuthRequired(h.authService)
	authRoutes.Get("/me", requireUser, h.HandleMe)
	authRoutes.Put("/profile", requireUser, h.HandleUpdateProfile)
	authRoutes.Post("/logout", requireUser, h.HandleLogout)

	authRoutes.Get("/verify-admin", middleware.AdminRequired(h.authService), h.HandleVerifyAdmin)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the ID token issued by Google Sign-In.
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// userResponse is the public view of an account returned by the auth endpoints.
func userResponse(u *models.User) fiber.Map {
	return fiber.Map{
		"_id":          u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"phone":        u.Phone,
		"address":      u.Address,
		"image":        u.Image,
		"authProvider": u.AuthProvider,
	}
}

func adminResponse(a *models.Admin) fiber.Map {
	return fiber.Map{
		"_id":   a.ID,
		"name":  a.Name,
		"email": a.Email,
	}
}

// HandleRegister handles new customer registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	user, token, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "register user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created successfully",
		"user":    userResponse(user),
		"token":   token,
	})
}

// HandleLogin handles customer login and issues a JWT token along with the saved cart.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	user, token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrFederatedAccount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message":      err.Error(),
				"isGoogleAuth": true,
			})
		}
		return respondError(c, err, "login user")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    userResponse(user),
		"cart":    cartOf(user),
		"token":   token,
	})
}

// HandleGoogleLogin signs a customer in with a Google ID token.
func (h *AuthHandler) HandleGoogleLogin(c *fiber.Ctx) error {
	var req GoogleLoginRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	user, token, err := h.authService.LoginWithGoogle(c.UserContext(), req.Token)
	if err != nil {
		return respondError(c, err, "google login")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    userResponse(user),
		"cart":    cartOf(user),
		"token":   token,
	})
}

// HandleMe returns the authenticated customer.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(userResponse(middleware.CurrentUser(c)))
}

// HandleUpdateProfile updates name, phone and address of the authenticated customer.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return respondError(c, err, "update profile")
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    userResponse(user),
	})
}

// HandleLogout acknowledges a logout. Tokens are stateless and simply discarded by the client.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// HandleAdminRegister bootstraps the first admin account.
func (h *AuthHandler) HandleAdminRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	admin, token, err := h.authService.RegisterAdmin(c.UserContext(), req)
	if err != nil {
		return respondError(c, err, "register admin")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin registered successfully",
		"user":    adminResponse(admin),
		"token":   token,
	})
}

// HandleAdminLogin handles admin login.
func (h *AuthHandler) HandleAdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if errBody := parseBody(c, h.validate, &req); errBody != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errBody)
	}

	admin, token, err := h.authService.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "login admin")
	}

	return c.JSON(fiber.Map{
		"message": "Admin login successful",
		"user":    adminResponse(admin),
		"token":   token,
	})
}

// HandleVerifyAdmin confirms an admin token is still valid.
func (h *AuthHandler) HandleVerifyAdmin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"valid": true,
		"admin": adminResponse(middleware.CurrentAdmin(c)),
	})
}

func cartOf(u *models.User) []models.CartItem {
	if u.Cart == nil {
		return []models.CartItem{}
	}
	return u.Cart
}
