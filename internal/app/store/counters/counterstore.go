// internal/app/store/counters/counterstore.go

// Package counters hands out the per-collection integer identities.
// Every id the service persists comes from here: ids start at 1, only
// increase, and are never reused, even after deletes.
package counters

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

type counter struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// Next atomically increments and returns the counter for a collection.
// The $inc-with-upsert runs server-side as one operation, so two
// concurrent writers can never be handed the same id.
func (s *Store) Next(ctx context.Context, collection string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}

// Current returns the last handed-out value without consuming one.
// Missing counter reads as 0.
func (s *Store) Current(ctx context.Context, collection string) (int, error) {
	var c counter
	err := s.c.FindOne(ctx, bson.M{"_id": collection}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}
