package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotfood/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMEventRepository is a GORM implementation of EventRepository.
type GORMEventRepository struct {
	db *gorm.DB
}

// NewGORMEventRepository creates a new instance of GORMEventRepository.
func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{db: db}
}

func (r *GORMEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *GORMEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by ID %s: %w", id, err)
	}
	return &event, nil
}

func (r *GORMEventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", event.ID).
		Select("status", "paid_amount", "updated_at").Updates(event)
	if res.Error != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("event with ID %s: %w", event.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	q := ownerScope(r.db.WithContext(ctx), filter.UserID, filter.Email, filter.EmailFold)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ExcludeStatus != "" {
		q = q.Where("status <> ?", filter.ExcludeStatus)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var events []models.Event
	if err := q.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
