package repositories

import (
	"context"
	"errors"
	"time"

	"hotfood/internal/models"
)

// ErrNotFound is wrapped by every repository when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is wrapped by every repository when a write violates a unique key.
var ErrDuplicate = errors.New("duplicate record")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, products []models.Product) error
}

// UserRepository defines the interface for customer account data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateCart(ctx context.Context, id string, cart []models.CartItem) error
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// AdminRepository defines the interface for admin account data access.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	Count(ctx context.Context) (int64, error)
}

// OrderFilter narrows an order listing. Zero fields are ignored. When both UserID and
// Email are set a record matching either one is returned.
type OrderFilter struct {
	UserID        string
	Email         string
	EmailFold     bool // match Email case-insensitively
	Status        models.OrderStatus
	ExcludeStatus models.OrderStatus
	Since         time.Time
	Limit         int
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	// List returns matching orders, newest first.
	List(ctx context.Context, filter OrderFilter) ([]models.Order, error)
}

// EventFilter narrows an event listing the same way OrderFilter does.
type EventFilter struct {
	UserID        string
	Email         string
	EmailFold     bool
	Status        models.EventStatus
	ExcludeStatus models.EventStatus
	Since         time.Time
	Limit         int
}

// EventRepository defines the interface for catering booking data access.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	List(ctx context.Context, filter EventFilter) ([]models.Event, error)
}

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Review, error)
	// List returns all reviews, newest first.
	List(ctx context.Context) ([]models.Review, error)
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Products ProductRepository
	Users    UserRepository
	Admins   AdminRepository
	Orders   OrderRepository
	Events   EventRepository
	Reviews  ReviewRepository
}
