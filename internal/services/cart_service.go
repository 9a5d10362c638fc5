package services

import (
	"context"
	"errors"

	"hotfood/internal/models"
	"hotfood/internal/repositories"
)

// CartService persists the cart snapshot kept on each user record.
type CartService struct {
	userRepo repositories.UserRepository
}

// NewCartService creates a new CartService.
func NewCartService(userRepo repositories.UserRepository) *CartService {
	return &CartService{userRepo: userRepo}
}

// GetCart returns the last synced cart of the user, never nil.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Cart == nil {
		return []models.CartItem{}, nil
	}
	return user.Cart, nil
}

// ReplaceCart overwrites the stored cart with items. The last writer wins; lines with a
// non-positive quantity are dropped.
func (s *CartService) ReplaceCart(ctx context.Context, userID string, items []models.CartItem) ([]models.CartItem, error) {
	cart := NormalizeCart(items)
	if err := s.userRepo.UpdateCart(ctx, userID, cart); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return cart, nil
}

// NormalizeCart drops empty lines and lines without a product id, keeping order.
func NormalizeCart(items []models.CartItem) []models.CartItem {
	cart := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		cart = append(cart, item)
	}
	return cart
}
