package services

import "errors"

// Validation failures.
var (
	ErrEmptyOrder      = errors.New("At least one item is required")
	ErrInvalidQuantity = errors.New("Quantity must be between 1 and 1000")
	ErrUnknownItem     = errors.New("Unknown item")
	ErrInvalidStatus   = errors.New("Invalid status")
	ErrInvalidRating   = errors.New("Rating must be between 1 and 5")
	ErrInvalidDate     = errors.New("Invalid event date")
	ErrInvalidPeriod   = errors.New("Period must be week, month or year")
	ErrUserExists      = errors.New("User already exists")
	ErrAdminExists     = errors.New("Admin already exists")
)

// Authentication and authorization failures.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrInvalidToken       = errors.New("Invalid token")
	ErrAccountBlocked     = errors.New("Your account has been BLOCKED by Admin.")
	ErrFederatedAccount   = errors.New("This account uses Google Login. Please sign in with Google.")
	ErrFederatedLogin     = errors.New("Google login failed")
	ErrAdminSignupClosed  = errors.New("Admin registration is closed")
)

// Not-found failures.
var (
	ErrUserNotFound     = errors.New("User not found")
	ErrAdminNotFound    = errors.New("Admin not found")
	ErrProductNotFound  = errors.New("Product not found")
	ErrOrderNotFound    = errors.New("Order not found")
	ErrEventNotFound    = errors.New("Event not found")
	ErrCustomerNotFound = errors.New("Customer not found")
)

// State conflicts.
var (
	ErrInvalidOTP         = errors.New("Invalid OTP. Delivery cannot be verified.")
	ErrCannotCancel       = errors.New("Cannot cancel order at this stage")
	ErrInvalidTransition  = errors.New("Status transition not allowed")
	ErrNotDelivered       = errors.New("Only delivered orders can be reviewed")
	ErrAlreadyReviewed    = errors.New("You have already reviewed this order")
	ErrReviewWindowClosed = errors.New("Review period expired (7 days limit)")
)
