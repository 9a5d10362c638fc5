package models

import "time"

// Admin is a back-office account. Admins live in their own table, separate from users.
type Admin struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name      string    `json:"name" gorm:"type:varchar(100)" bson:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"email"`
	Password  string    `json:"-" gorm:"type:varchar(255)" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
