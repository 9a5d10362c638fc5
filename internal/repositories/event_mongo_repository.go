package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotfood/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoEventRepository stores bookings in the "events" collection.
type MongoEventRepository struct {
	coll *mongo.Collection
}

// NewMongoEventRepository creates a new instance of MongoEventRepository.
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{coll: db.Collection(eventsCollection)}
}

func (r *MongoEventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *MongoEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("event with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by ID %s: %w", id, err)
	}
	return &event, nil
}

func (r *MongoEventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": event.ID}, bson.M{"$set": bson.M{
		"status":     event.Status,
		"paidAmount": event.PaidAmount,
		"updatedAt":  event.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("event with ID %s: %w", event.ID, ErrNotFound)
	}
	return nil
}

func (r *MongoEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, error) {
	q := listFilter(ownerFilter(filter.UserID, filter.Email, filter.EmailFold),
		string(filter.Status), string(filter.ExcludeStatus), filter.Since)
	cur, err := r.coll.Find(ctx, q, newestFirst(filter.Limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	events := []models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}
