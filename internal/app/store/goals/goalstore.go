// internal/app/store/goals/goalstore.go
package goalstore

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
	return &Store{c: db.Collection("attendance_goals"), ids: counters.New(db)}
}

// List returns a department's goal history, newest first. The head of
// the list is the current goal.
func (s *Store) List(ctx context.Context, departmentID int) ([]models.AttendanceGoal, error) {
	cur, err := s.c.Find(ctx, bson.M{"department_id": departmentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AttendanceGoal
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Current returns the most recently created goal for a department and a
// found flag.
func (s *Store) Current(ctx context.Context, departmentID int) (models.AttendanceGoal, bool, error) {
	var g models.AttendanceGoal
	err := s.c.FindOne(ctx, bson.M{"department_id": departmentID},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.AttendanceGoal{}, false, nil
	}
	if err != nil {
		return models.AttendanceGoal{}, false, err
	}
	return g, true, nil
}

// Create appends a goal. Goals are never edited; a new goal supersedes.
func (s *Store) Create(ctx context.Context, g models.AttendanceGoal) (models.AttendanceGoal, error) {
	id, err := s.ids.Next(ctx, "attendance_goals")
	if err != nil {
		return models.AttendanceGoal{}, err
	}
	g.ID = id
	if g.Period == "" {
		g.Period = models.GoalWeekly
	}
	g.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.AttendanceGoal{}, err
	}
	return g, nil
}
