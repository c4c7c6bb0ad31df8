// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkim/shepherdhub/internal/app/store/counters"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Store struct {
	c   *mongo.Collection
	ids *counters.Store
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// ListByTarget returns a target's comments, oldest first.
func (s *Store) ListByTarget(ctx context.Context, targetType string, targetID int) ([]models.Comment, error) {
	q := bson.M{"target_type": targetType, "target_id": targetID}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	id, err := s.ids.Next(ctx, "comments")
	if err != nil {
		return models.Comment{}, err
	}
	c.ID = id
	c.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// Delete removes a comment by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTarget removes every comment on a target (parent delete
// cleanup). Returns the number deleted.
func (s *Store) DeleteByTarget(ctx context.Context, targetType string, targetID int) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"target_type": targetType, "target_id": targetID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
