package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"
	"hotfood/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2/log"
)

// DefaultPaymentMethod is recorded when an order does not name one.
const DefaultPaymentMethod = "Cash on Delivery"

// OrderEventPublisher delivers order lifecycle events to interested consumers.
type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, event rabbitmq.OrderEvent) error
}

// OrderLine is one requested product of a new order.
type OrderLine struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=1000"`
}

// PlaceOrderInput carries the checkout form.
type PlaceOrderInput struct {
	CustomerName    string      `json:"customerName" validate:"required,max=100"`
	CustomerEmail   string      `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string      `json:"customerPhone" validate:"required,max=20"`
	Items           []OrderLine `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress string      `json:"deliveryAddress" validate:"required,max=500"`
	PaymentMethod   string      `json:"paymentMethod" validate:"omitempty,max=50"`
}

// OrderService runs the order fulfillment state machine.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   OrderEventPublisher
	otp         func() (string, error)
	now         func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		otp:         GenerateOTP,
		now:         time.Now,
	}
}

// GenerateOTP returns a uniformly random 4-digit code in [1000, 9999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("failed to generate delivery OTP: %w", err)
	}
	return fmt.Sprintf("%d", 1000+n.Int64()), nil
}

// PlaceOrder snapshots the requested catalog items into a pending order. userID links the
// order to an account and may be empty for guest checkout.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput, userID string) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var itemsTotal int64
	for _, line := range in.Items {
		if line.Quantity < 1 || line.Quantity > models.MaxQuantity {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.GetByID(ctx, line.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ID)
			}
			return nil, err
		}
		var ok bool
		if itemsTotal, ok = models.AddLine(itemsTotal, product.Price, line.Quantity); !ok {
			return nil, ErrInvalidQuantity
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Image:     product.Image,
		})
	}

	total, ok := models.AddLine(itemsTotal, models.DeliveryFee, 1)
	if !ok {
		return nil, ErrInvalidQuantity
	}

	otp, err := s.otp()
	if err != nil {
		return nil, err
	}

	paymentMethod := strings.TrimSpace(in.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	now := s.now()
	order := &models.Order{
		UserID:          userID,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   normalizeEmail(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		Items:           items,
		DeliveryFee:     models.DeliveryFee,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		PaymentMethod:   paymentMethod,
		Total:           total,
		Status:          models.OrderPending,
		DeliveryOTP:     otp,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	log.Infof("order %s placed by %s, total %d", order.ID, order.CustomerEmail, order.Total)

	s.publish(ctx, rabbitmq.EventOrderPlaced, order)
	return order, nil
}

// ListForCustomer returns the orders linked to user or placed with its email, newest first.
func (s *OrderService) ListForCustomer(ctx context.Context, user *models.User) ([]models.Order, error) {
	return s.orderRepo.List(ctx, repositories.OrderFilter{
		UserID:    user.ID,
		Email:     user.Email,
		EmailFold: true,
	})
}

// CancelForCustomer cancels an order the user owns. Orders owned by someone else are
// reported as not found.
func (s *OrderService) CancelForCustomer(ctx context.Context, user *models.User, orderID string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !OwnsOrder(user, order) {
		return nil, ErrOrderNotFound
	}
	return s.cancel(ctx, order)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx, repositories.OrderFilter{})
}

// GetByID returns a single order.
func (s *OrderService) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return s.getOrder(ctx, id)
}

// UpdateStatus moves an order to status on behalf of an admin. Delivery requires otp to
// match the code issued at placement; the first delivery stamps DeliveredAt.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, otp string) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.OrderCancelled {
		return s.cancel(ctx, order)
	}
	if status == models.OrderDelivered && strings.TrimSpace(otp) != order.DeliveryOTP {
		return nil, ErrInvalidOTP
	}
	if !models.CanAdvance(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	order.Status = status
	if status == models.OrderDelivered && order.DeliveredAt == nil {
		deliveredAt := s.now()
		order.DeliveredAt = &deliveredAt
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	log.Infof("order %s moved to %s", order.ID, order.Status)

	s.publish(ctx, rabbitmq.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) cancel(ctx context.Context, order *models.Order) (*models.Order, error) {
	if !order.Status.Cancellable() {
		return nil, ErrCannotCancel
	}
	order.Status = models.OrderCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	log.Infof("order %s cancelled", order.ID)

	s.publish(ctx, rabbitmq.EventOrderStatusChanged, order)
	return order, nil
}

func (s *OrderService) getOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// publish is best effort: the order is already persisted.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.OrderEvent{
		Type:          eventType,
		OrderID:       order.ID,
		UserID:        order.UserID,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Status:        string(order.Status),
		Total:         order.Total,
		OccurredAt:    s.now(),
	}
	if eventType == rabbitmq.EventOrderPlaced {
		event.DeliveryOTP = order.DeliveryOTP
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		log.Warnf("failed to publish %s for order %s: %v", eventType, order.ID, err)
	}
}

// OwnsOrder reports whether order belongs to user, by account link or by the email the
// order was placed with.
func OwnsOrder(user *models.User, order *models.Order) bool {
	if order.UserID != "" && order.UserID == user.ID {
		return true
	}
	return order.CustomerEmail != "" && order.CustomerEmail == user.Email
}
