package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hotfood/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2/log"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationService turns order events into customer mail.
type NotificationService struct {
	mailer Mailer
}

// NewNotificationService creates a new NotificationService. With a nil mailer events are
// only logged.
func NewNotificationService(mailer Mailer) *NotificationService {
	return &NotificationService{mailer: mailer}
}

// HandleOrderEvent mails the customer about event.
func (s *NotificationService) HandleOrderEvent(ctx context.Context, event rabbitmq.OrderEvent) error {
	if event.CustomerEmail == "" {
		return nil
	}
	subject, body := composeOrderMail(event)
	if s.mailer == nil {
		log.Debugf("mail disabled, skipping %q to %s", subject, event.CustomerEmail)
		return nil
	}
	if err := s.mailer.Send(ctx, event.CustomerEmail, subject, body); err != nil {
		return fmt.Errorf("failed to mail %s about order %s: %w", event.CustomerEmail, event.OrderID, err)
	}
	return nil
}

func composeOrderMail(event rabbitmq.OrderEvent) (string, string) {
	var b strings.Builder
	name := event.CustomerName
	if name == "" {
		name = "Customer"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)

	var subject string
	switch event.Type {
	case rabbitmq.EventOrderPlaced:
		subject = fmt.Sprintf("Order %s placed", event.OrderID)
		fmt.Fprintf(&b, "We received your order %s. Total: %d.\n", event.OrderID, event.Total)
		fmt.Fprintf(&b, "Share this code with the delivery partner on arrival: %s\n", event.DeliveryOTP)
	default:
		status := strings.ReplaceAll(event.Status, "_", " ")
		subject = fmt.Sprintf("Order %s is %s", event.OrderID, status)
		fmt.Fprintf(&b, "Your order %s is now %s.\n", event.OrderID, status)
	}
	b.WriteString("\nThank you for ordering with us.\n")
	return subject, b.String()
}

// DirectPublisher delivers order events to a NotificationService in process. It stands in
// for the broker when none is configured. Delivery runs in the background so requests do
// not wait on the mail server.
type DirectPublisher struct {
	notifier *NotificationService
	wg       sync.WaitGroup
}

// NewDirectPublisher creates a DirectPublisher over notifier.
func NewDirectPublisher(notifier *NotificationService) *DirectPublisher {
	return &DirectPublisher{notifier: notifier}
}

// PublishOrderEvent hands event to the notifier on a new goroutine. The delivery context
// keeps ctx's values but outlives its cancellation.
func (p *DirectPublisher) PublishOrderEvent(ctx context.Context, event rabbitmq.OrderEvent) error {
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.notifier.HandleOrderEvent(ctx, event); err != nil {
			log.Errorf("failed to deliver %s for order %s: %v", event.Type, event.OrderID, err)
		}
	}()
	return nil
}

// Wait blocks until every event handed to p has been delivered.
func (p *DirectPublisher) Wait() {
	p.wg.Wait()
}
