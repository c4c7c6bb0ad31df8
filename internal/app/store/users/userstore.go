// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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

var ErrDuplicateUsername = errors.New("a user with this username already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// List returns users, optionally confined to one department, ordered by id.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.User, error) {
	filter := bson.M{}
	if departmentID != nil {
		filter["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches users whose name contains the query, case-insensitive,
// optionally confined to one department. At most limit rows are returned.
func (s *Store) Search(ctx context.Context, departmentID *int, q string, limit int64) ([]models.User, error) {
	filter := bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}}
	if departmentID != nil {
		filter["department_id"] = *departmentID
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	id, err := s.ids.Next(ctx, "users")
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, err
	}
	return u, nil
}

// Patch carries the mutable user fields; nil means leave as is.
// DepartmentID uses a double pointer so callers can distinguish
// "not supplied" from "clear to nil" (super_admin has no department).
type Patch struct {
	Name          *string
	Role          *string
	DepartmentID  **int
	AssignedGrade *string
	AssignedGroup *string
	PasswordHash  *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.DepartmentID != nil {
		set["department_id"] = *p.DepartmentID
	}
	if p.AssignedGrade != nil {
		set["assigned_grade"] = *p.AssignedGrade
	}
	if p.AssignedGroup != nil {
		set["assigned_group"] = *p.AssignedGroup
	}
	if p.PasswordHash != nil {
		set["password"] = *p.PasswordHash
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a user by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
