package models

import "time"

// Product represents a catalog entry. ID is a stable human-readable key such as "gulab_jamun".
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(64)" bson:"_id" validate:"required,max=64"`
	Name        string    `json:"name" gorm:"type:varchar(100)" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description" bson:"description" validate:"omitempty,max=500"`
	Price       int64     `json:"price" bson:"price" validate:"required,gt=0"` // smallest currency unit
	Category    string    `json:"category" gorm:"type:varchar(64)" bson:"category" validate:"required"`
	Image       string    `json:"image" bson:"image"`
	Stock       int       `json:"stock" bson:"stock" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
