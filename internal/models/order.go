package models

import (
	"math"
	"time"
)

// DeliveryFee is added to every order total.
const DeliveryFee int64 = 30

// MaxQuantity caps the quantity of a single order or event line.
const MaxQuantity = 1000

// AddLine returns sum + price*quantity. It reports false when an operand is negative or
// the result does not fit in an int64.
func AddLine(sum, price int64, quantity int) (int64, bool) {
	if sum < 0 || price < 0 || quantity < 0 {
		return 0, false
	}
	q := int64(quantity)
	if q != 0 && price > (math.MaxInt64-sum)/q {
		return 0, false
	}
	return sum + price*q, true
}

// OrderItem is a snapshot of a product at purchase time.
type OrderItem struct {
	ProductID string `json:"productId" bson:"productId"`
	Name      string `json:"name" bson:"name"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Price     int64  `json:"price" bson:"price"` // unit price at the time of order
	Image     string `json:"image" bson:"image"`
}

// Order represents a customer order.
type Order struct {
	ID              string      `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID          string      `json:"user,omitempty" gorm:"index;type:varchar(36)" bson:"user,omitempty"`
	CustomerName    string      `json:"customerName" bson:"customerName"`
	CustomerEmail   string      `json:"customerEmail" gorm:"index;type:varchar(255)" bson:"customerEmail"`
	CustomerPhone   string      `json:"customerPhone" bson:"customerPhone"`
	Items           []OrderItem `json:"items" gorm:"type:text;serializer:json" bson:"items"`
	Total           int64       `json:"total" bson:"total"`
	DeliveryFee     int64       `json:"deliveryFee" bson:"deliveryFee"`
	DeliveryAddress string      `json:"deliveryAddress" bson:"deliveryAddress"`
	PaymentMethod   string      `json:"paymentMethod" bson:"paymentMethod"`
	Status          OrderStatus `json:"status" gorm:"index;type:varchar(32)" bson:"status"`
	DeliveryOTP     string      `json:"deliveryOtp" gorm:"column:delivery_otp;type:varchar(4)" bson:"deliveryOtp"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	IsReviewed      bool        `json:"isReviewed" bson:"isReviewed"`
	CreatedAt       time.Time   `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// ItemsTotal sums unit price times quantity over the line items, without the delivery fee.
func (o *Order) ItemsTotal() int64 {
	var sum int64
	for _, item := range o.Items {
		sum += item.Price * int64(item.Quantity)
	}
	return sum
}
