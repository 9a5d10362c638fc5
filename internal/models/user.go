package models

import "time"

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// User represents a customer account. An empty Password means the account was created
// through a federated identity provider.
type User struct {
	ID           string     `json:"_id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name         string     `json:"name" gorm:"type:varchar(100)" bson:"name"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" bson:"email"`
	Password     string     `json:"-" gorm:"type:varchar(255)" bson:"password,omitempty"`
	Phone        string     `json:"phone" bson:"phone"`
	Address      string     `json:"address" bson:"address"`
	Image        string     `json:"image" bson:"image"`
	IsBlocked    bool       `json:"isBlocked" bson:"isBlocked"`
	AuthProvider string     `json:"authProvider" gorm:"type:varchar(16);default:local" bson:"authProvider"`
	GoogleID     string     `json:"googleId,omitempty" bson:"googleId,omitempty"`
	Cart         []CartItem `json:"cart" gorm:"type:text;serializer:json" bson:"cart"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// HasPassword reports whether the user can sign in with email and password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
