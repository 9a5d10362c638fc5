package services

import (
	"context"
	"errors"
	"fmt"

	"hotfood/internal/models"
	"hotfood/internal/repositories"

	"github.com/gofiber/fiber/v2/log"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// SeedIfEmpty installs DefaultCatalog when the catalog holds fewer products than it.
func (s *ProductService) SeedIfEmpty(ctx context.Context) error {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(products) >= len(DefaultCatalog()) {
		log.Infof("catalog already has %d products", len(products))
		return nil
	}
	return s.Seed(ctx)
}

// Seed replaces the catalog with DefaultCatalog.
func (s *ProductService) Seed(ctx context.Context) error {
	catalog := DefaultCatalog()
	if err := s.repo.ReplaceAll(ctx, catalog); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	log.Infof("seeded %d products", len(catalog))
	return nil
}

// DefaultCatalog is the menu installed on first start.
func DefaultCatalog() []models.Product {
	return []models.Product{
		{
			ID:          "varan_batti",
			Name:        "Varan Batti",
			Description: "Traditional Maharashtrian dish of spicy dal and wheat dumplings served with ghee.",
			Price:       250,
			Category:    "Maharashtrian",
			Image:       "https://i.ytimg.com/vi/io7C2sqcHTY/maxresdefault.jpg",
			Stock:       100,
		},
		{
			ID:          "vangyachi_bhaji",
			Name:        "Vangyachi Bhaji",
			Description: "Stuffed eggplant curry cooked in peanut masala gravy.",
			Price:       180,
			Category:    "Maharashtrian",
			Image:       "https://i.ytimg.com/vi/mi1u1Vww5Bs/maxresdefault.jpg",
			Stock:       100,
		},
		{
			ID:          "gulab_jamun",
			Name:        "Gulab Jamun",
			Description: "Soft milk solids balls soaked in rose-flavored sugar syrup. (4 pieces)",
			Price:       120,
			Category:    "Sweets",
			Image:       "https://tse4.mm.bing.net/th/id/OIP.CAtBpWIDodCzw7gVR5MS1wHaE-?pid=Api&P=0&h=180",
			Stock:       100,
		},
		{
			ID:          "kaju_barfi",
			Name:        "Kaju Barfi",
			Description: "Diamond-shaped cashew fudge topped with silver leaf. (250g)",
			Price:       200,
			Category:    "Sweets",
			Image:       "https://tse1.mm.bing.net/th/id/OIP.sx-WMFTfW1tFCHrIdGgVFAHaEK?pid=Api&P=0&h=180",
			Stock:       100,
		},
		{
			ID:          "sprite",
			Name:        "Sprite",
			Description: "Chilled lemon-lime soft drink (750ml).",
			Price:       50,
			Category:    "Cold Drinks",
			Image:       "https://images.unsplash.com/photo-1625772299848-391b6a87d7b3?w=600&q=80",
			Stock:       100,
		},
		{
			ID:          "thums_up",
			Name:        "Thums Up",
			Description: "Strong and fizzy cola (750ml).",
			Price:       50,
			Category:    "Cold Drinks",
			Image:       "https://images.unsplash.com/photo-1622483767028-3f66f32aef97?w=600&q=80",
			Stock:       100,
		},
	}
}
