package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"

	"github.com/gofiber/fiber/v2/log"
)

// EventFoodRequest is a dish requested for a catering booking. Any client-supplied price
// is ignored.
type EventFoodRequest struct {
	ItemID   string `json:"itemId" validate:"required"`
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity" validate:"lte=1000"`
}

// BookEventInput carries the catering booking form.
type BookEventInput struct {
	CustomerName        string             `json:"customerName" validate:"required,max=100"`
	CustomerEmail       string             `json:"customerEmail" validate:"required,email"`
	CustomerPhone       string             `json:"customerPhone" validate:"required,max=20"`
	EventType           string             `json:"eventType" validate:"required,max=100"`
	EventDate           string             `json:"eventDate" validate:"required"`
	Guests              int                `json:"guests" validate:"gte=1"`
	EventAddress        string             `json:"eventAddress" validate:"required,max=500"`
	SpecialRequirements string             `json:"specialRequirements" validate:"omitempty,max=1000"`
	FoodItems           []EventFoodRequest `json:"foodItems" validate:"dive"`
}

var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseEventDate accepts an RFC 3339 timestamp, a datetime-local value or a plain date.
func ParseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// EventService handles catering bookings.
type EventService struct {
	eventRepo     repositories.EventRepository
	productRepo   repositories.ProductRepository
	strictPricing bool
	now           func() time.Time
}

// NewEventService creates a new EventService. With strictPricing set, bookings naming an
// item missing from the catalog are rejected instead of priced at zero.
func NewEventService(eventRepo repositories.EventRepository, productRepo repositories.ProductRepository, strictPricing bool) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		productRepo:   productRepo,
		strictPricing: strictPricing,
		now:           time.Now,
	}
}

// Book prices the requested dishes from the current catalog and stores a pending booking.
// userID may be empty for guest bookings.
func (s *EventService) Book(ctx context.Context, in BookEventInput, userID string) (*models.Event, error) {
	eventDate, err := ParseEventDate(in.EventDate)
	if err != nil {
		return nil, err
	}

	foodItems := make([]models.EventFoodItem, 0, len(in.FoodItems))
	var total int64
	for _, req := range in.FoodItems {
		item, err := s.priceItem(ctx, req)
		if err != nil {
			return nil, err
		}
		var ok bool
		if total, ok = models.AddLine(total, item.Price, item.Quantity); !ok {
			return nil, ErrInvalidQuantity
		}
		foodItems = append(foodItems, item)
	}

	now := s.now()
	event := &models.Event{
		UserID:              userID,
		CustomerName:        strings.TrimSpace(in.CustomerName),
		CustomerEmail:       normalizeEmail(in.CustomerEmail),
		CustomerPhone:       strings.TrimSpace(in.CustomerPhone),
		EventType:           strings.TrimSpace(in.EventType),
		EventDate:           eventDate,
		Guests:              in.Guests,
		EventAddress:        strings.TrimSpace(in.EventAddress),
		SpecialRequirements: strings.TrimSpace(in.SpecialRequirements),
		FoodItems:           foodItems,
		Status:              models.EventPending,
		TotalAmount:         total,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	log.Infof("event %s booked by %s, total %d", event.ID, event.CustomerEmail, event.TotalAmount)
	return event, nil
}

func (s *EventService) priceItem(ctx context.Context, req EventFoodRequest) (models.EventFoodItem, error) {
	item := models.EventFoodItem{
		ItemID:   req.ItemID,
		ItemName: req.ItemName,
		Quantity: req.Quantity,
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Quantity > models.MaxQuantity {
		return item, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ItemID)
	switch {
	case err == nil:
		item.Price = product.Price
		item.ItemName = product.Name
	case errors.Is(err, repositories.ErrNotFound):
		if s.strictPricing {
			return item, fmt.Errorf("%w: %s", ErrUnknownItem, req.ItemID)
		}
		log.Warnf("event item %s is not in the catalog, pricing at 0", req.ItemID)
	default:
		return item, err
	}
	return item, nil
}

// ListForCustomer returns the bookings linked to user or made with its email, newest first.
func (s *EventService) ListForCustomer(ctx context.Context, user *models.User) ([]models.Event, error) {
	return s.eventRepo.List(ctx, repositories.EventFilter{
		UserID:    user.ID,
		Email:     user.Email,
		EmailFold: true,
	})
}

// ListAll returns every booking, newest first.
func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.List(ctx, repositories.EventFilter{})
}

// GetByID returns a single booking.
func (s *EventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// UpdateStatus moves a booking along its lifecycle on behalf of an admin.
func (s *EventService) UpdateStatus(ctx context.Context, id string, status models.EventStatus) (*models.Event, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionEvent(event.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, event.Status, status)
	}
	event.Status = status
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	log.Infof("event %s moved to %s", event.ID, event.Status)
	return event, nil
}
