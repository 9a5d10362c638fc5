package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	amqp "github.com/streadway/amqp"
)

// OrderQueue is the durable queue carrying order lifecycle events.
const OrderQueue = "order_queue"

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message published on every order placement and status change.
type OrderEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId,omitempty"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Status        string    `json:"status"`
	Total         int64     `json:"total"`
	DeliveryOTP   string    `json:"deliveryOtp,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares OrderQueue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareOrderQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Infof("RabbitMQ client connected, %s declared", OrderQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declareOrderQueue(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		OrderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// PublishOrderEvent publishes event to OrderQueue as a persistent JSON message.
func (c *Client) PublishOrderEvent(ctx context.Context, event OrderEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = c.channel.Publish(
		"",         // default exchange
		OrderQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         event.Type,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debugf("sent %s for order %s", event.Type, event.OrderID)
	return nil
}

// ConsumeOrderEvents decodes messages from OrderQueue and hands them to handler in a
// background goroutine until ctx is done or the channel closes. Messages the handler
// fails on are requeued once; malformed messages are dropped.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(context.Context, OrderEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}
	if err := declareOrderQueue(c.channel); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		OrderQueue, // queue
		"",         // consumer tag
		false,      // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Infof("waiting for order events on %s", OrderQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				handleDelivery(ctx, msg, handler)
			}
		}
	}()

	return nil
}

func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, OrderEvent) error) {
	var event OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Errorf("dropping malformed order event %d: %v", msg.DeliveryTag, err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Errorf("error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		log.Errorf("error processing order event %d: %v", msg.DeliveryTag, err)
		// Redelivered messages are not requeued again to avoid a poison loop.
		if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
			log.Errorf("error nacking message %d: %v", msg.DeliveryTag, nackErr)
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		log.Errorf("error acking message %d: %v", msg.DeliveryTag, ackErr)
	}
}
