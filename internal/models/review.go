package models

import "time"

// Review is a customer's rating of a delivered order. There is at most one per order.
type Review struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	UserID    string    `json:"user" gorm:"index;type:varchar(36)" bson:"user"`
	UserName  string    `json:"userName" bson:"userName"`
	OrderID   string    `json:"orderId" gorm:"uniqueIndex;type:varchar(36)" bson:"orderId"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
}
