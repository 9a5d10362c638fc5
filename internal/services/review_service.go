package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"

	"github.com/gofiber/fiber/v2/log"
)

// ReviewWindow is how long after delivery an order may still be reviewed.
const ReviewWindow = 7 * 24 * time.Hour

// ImageUploader stores an inline data URL and returns the public URL of the object.
type ImageUploader interface {
	UploadDataURL(ctx context.Context, key, dataURL string) (string, error)
}

// CreateReviewInput carries a review submission.
type CreateReviewInput struct {
	OrderID string `json:"orderId" validate:"required"`
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
	Image   string `json:"image"`
}

// ReviewService handles post-delivery reviews.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	orderRepo  repositories.OrderRepository
	uploader   ImageUploader
	now        func() time.Time
}

// ReviewOption configures a ReviewService.
type ReviewOption func(*ReviewService)

// WithClock replaces the wall clock used for the review window.
func WithClock(now func() time.Time) ReviewOption {
	return func(s *ReviewService) {
		s.now = now
	}
}

// WithImageUploader stores data URL images through u instead of inline.
func WithImageUploader(u ImageUploader) ReviewOption {
	return func(s *ReviewService) {
		s.uploader = u
	}
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, orderRepo repositories.OrderRepository, opts ...ReviewOption) *ReviewService {
	s := &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckReviewable reports why order cannot be reviewed at now, or nil if it can. An order
// delivered exactly ReviewWindow ago is still reviewable; an order without a delivery
// timestamp always is.
func CheckReviewable(order *models.Order, now time.Time) error {
	if order.Status != models.OrderDelivered {
		return ErrNotDelivered
	}
	if order.IsReviewed {
		return ErrAlreadyReviewed
	}
	if order.DeliveredAt != nil && order.DeliveredAt.Before(now.Add(-ReviewWindow)) {
		return ErrReviewWindowClosed
	}
	return nil
}

// Create records user's review of one of their delivered orders and flags the order as
// reviewed.
func (s *ReviewService) Create(ctx context.Context, user *models.User, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !OwnsOrder(user, order) {
		return nil, ErrOrderNotFound
	}
	if err := CheckReviewable(order, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.reviewRepo.GetByOrderID(ctx, order.ID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	image, err := s.storeImage(ctx, order.ID, in.Image)
	if err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(user.Name)
	if userName == "" {
		userName = "Customer"
	}
	review := &models.Review{
		UserID:    user.ID,
		UserName:  userName,
		OrderID:   order.ID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		Image:     image,
		CreatedAt: s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	order.IsReviewed = true
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to flag order as reviewed: %w", err)
	}
	log.Infof("order %s reviewed by %s with rating %d", order.ID, user.Email, review.Rating)
	return review, nil
}

// List returns every review, newest first.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	return s.reviewRepo.List(ctx)
}

func (s *ReviewService) storeImage(ctx context.Context, orderID, image string) (string, error) {
	if s.uploader == nil || !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	url, err := s.uploader.UploadDataURL(ctx, "reviews/"+orderID, image)
	if err != nil {
		return "", fmt.Errorf("failed to upload review image: %w", err)
	}
	return url, nil
}
