package models

import "time"

// EventStatus is a stage in the catering booking lifecycle.
type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

var eventNext = map[EventStatus]map[EventStatus]bool{
	EventPending:   {EventConfirmed: true, EventCompleted: true, EventCancelled: true},
	EventConfirmed: {EventCompleted: true, EventCancelled: true},
	EventCompleted: {},
	EventCancelled: {},
}

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	_, ok := eventNext[s]
	return ok
}

// CanTransitionEvent reports whether a booking may move from one status to another.
func CanTransitionEvent(from, to EventStatus) bool {
	return eventNext[from][to]
}

// EventFoodItem is a requested dish with the catalog price captured at booking time.
type EventFoodItem struct {
	ItemID   string `json:"itemId" bson:"itemId"`
	ItemName string `json:"itemName" bson:"itemName"`
	Quantity int    `json:"quantity" bson:"quantity"`
	Price    int64  `json:"price" bson:"price"`
}

// Event is a catering booking.
type Event struct {
	ID                  string          `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID              string          `json:"user,omitempty" gorm:"index;type:varchar(36)" bson:"user,omitempty"`
	CustomerName        string          `json:"customerName" bson:"customerName"`
	CustomerEmail       string          `json:"customerEmail" gorm:"index;type:varchar(255)" bson:"customerEmail"`
	CustomerPhone       string          `json:"customerPhone" bson:"customerPhone"`
	EventType           string          `json:"eventType" bson:"eventType"`
	EventDate           time.Time       `json:"eventDate" bson:"eventDate"`
	Guests              int             `json:"guests" bson:"guests"`
	EventAddress        string          `json:"eventAddress" bson:"eventAddress"`
	SpecialRequirements string          `json:"specialRequirements" bson:"specialRequirements"`
	FoodItems           []EventFoodItem `json:"foodItems" gorm:"type:text;serializer:json" bson:"foodItems"`
	Status              EventStatus     `json:"status" gorm:"index;type:varchar(32)" bson:"status"`
	TotalAmount         int64           `json:"totalAmount" bson:"totalAmount"`
	PaidAmount          int64           `json:"paidAmount" bson:"paidAmount"`
	CreatedAt           time.Time       `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt" bson:"updatedAt"`
}
