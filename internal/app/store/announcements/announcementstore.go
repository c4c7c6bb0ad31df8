// internal/app/store/announcements/announcementstore.go
package announcementstore

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
	return &Store{c: db.Collection("announcements"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// List returns announcements, pinned first, then newest first.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.Announcement, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	sort := bson.D{{Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Announcement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	id, err := s.ids.Next(ctx, "announcements")
	if err != nil {
		return models.Announcement{}, err
	}
	now := time.Now().UTC()
	a.ID = id
	if a.Priority == "" {
		a.Priority = models.AnnouncementNormal
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// Patch carries the mutable announcement fields; nil means leave as is.
type Patch struct {
	Title    *string
	Content  *string
	Priority *string
	Pinned   *bool
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	if p.Pinned != nil {
		set["pinned"] = *p.Pinned
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes an announcement by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
