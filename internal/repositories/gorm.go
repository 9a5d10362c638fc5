package repositories

import (
	"fmt"

	"hotfood/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the tables behind the GORM repositories.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.Admin{},
		&models.Order{},
		&models.Event{},
		&models.Review{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// NewGORMRepositories wires every GORM repository over db.
func NewGORMRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Products: NewGORMProductRepository(db),
		Users:    NewGORMUserRepository(db),
		Admins:   NewGORMAdminRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Events:   NewGORMEventRepository(db),
		Reviews:  NewGORMReviewRepository(db),
	}
}
