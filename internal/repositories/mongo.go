package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	usersCollection    = "users"
	adminsCollection   = "admins"
	ordersCollection   = "orders"
	eventsCollection   = "events"
	reviewsCollection  = "reviews"
)

// EnsureMongoIndexes creates the unique indexes the Mongo repositories rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	unique := []struct {
		collection string
		field      string
	}{
		{usersCollection, "email"},
		{adminsCollection, "email"},
		{reviewsCollection, "orderId"},
	}
	for _, idx := range unique {
		_, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", idx.collection, idx.field, err)
		}
	}
	for _, name := range []string{ordersCollection, eventsCollection} {
		_, err := db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "customerEmail", Value: 1}}},
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		})
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// NewMongoRepositories wires every Mongo repository over db.
func NewMongoRepositories(db *mongo.Database) Repositories {
	return Repositories{
		Products: NewMongoProductRepository(db),
		Users:    NewMongoUserRepository(db),
		Admins:   NewMongoAdminRepository(db),
		Orders:   NewMongoOrderRepository(db),
		Events:   NewMongoEventRepository(db),
		Reviews:  NewMongoReviewRepository(db),
	}
}

// ownerFilter mirrors ownerScope for documents.
func ownerFilter(userID, email string, fold bool) bson.M {
	var emailCond any = email
	if fold {
		emailCond = bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}
	}
	switch {
	case userID != "" && email != "":
		return bson.M{"$or": bson.A{
			bson.M{"user": userID},
			bson.M{"customerEmail": emailCond},
		}}
	case userID != "":
		return bson.M{"user": userID}
	case email != "":
		return bson.M{"customerEmail": emailCond}
	}
	return bson.M{}
}

// listFilter adds the status and date conditions shared by orders and events.
func listFilter(base bson.M, status, exclude string, since time.Time) bson.M {
	statusCond := bson.M{}
	if status != "" {
		statusCond["$eq"] = status
	}
	if exclude != "" {
		statusCond["$ne"] = exclude
	}
	if len(statusCond) > 0 {
		base["status"] = statusCond
	}
	if !since.IsZero() {
		base["createdAt"] = bson.M{"$gte": since}
	}
	return base
}

func newestFirst(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
