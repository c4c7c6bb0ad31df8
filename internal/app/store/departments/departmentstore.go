// internal/app/store/departments/departmentstore.go
package departmentstore

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
	return &Store{c: db.Collection("departments"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Department, error) {
	var d models.Department
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// List returns all departments ordered by id.
func (s *Store) List(ctx context.Context) ([]models.Department, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Department
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, d models.Department) (models.Department, error) {
	id, err := s.ids.Next(ctx, "departments")
	if err != nil {
		return models.Department{}, err
	}
	now := time.Now().UTC()
	d.ID = id
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// Patch carries the mutable department fields; nil means leave as is.
type Patch struct {
	Name        *string
	Description *string
	AgeRange    *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.AgeRange != nil {
		set["age_range"] = *p.AgeRange
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Exists reports whether a department id is present.
func (s *Store) Exists(ctx context.Context, id int) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
