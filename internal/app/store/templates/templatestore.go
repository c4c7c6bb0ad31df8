// internal/app/store/templates/templatestore.go
package templatestore

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
	return &Store{c: db.Collection("visit_templates"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.VisitTemplate, error) {
	var t models.VisitTemplate
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.VisitTemplate{}, err
	}
	return t, nil
}

// List returns templates, optionally for one department, newest first.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.VisitTemplate, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.VisitTemplate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, t models.VisitTemplate) (models.VisitTemplate, error) {
	id, err := s.ids.Next(ctx, "visit_templates")
	if err != nil {
		return models.VisitTemplate{}, err
	}
	t.ID = id
	t.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.VisitTemplate{}, err
	}
	return t, nil
}

// Delete removes a template by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
