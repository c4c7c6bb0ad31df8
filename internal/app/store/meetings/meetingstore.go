// internal/app/store/meetings/meetingstore.go
package meetingstore

import (
	"context"
	"regexp"
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
	return &Store{c: db.Collection("meetings"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Meeting, error) {
	var m models.Meeting
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// List returns meetings, newest first, optionally for one department.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.Meeting, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Meeting
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches meetings whose title or content contains the query,
// case-insensitive, optionally for one department. Newest first, at
// most limit rows.
func (s *Store) Search(ctx context.Context, departmentID *int, q string, limit int64) ([]models.Meeting, error) {
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	query := bson.M{"$or": []bson.M{{"title": rx}, {"content": rx}}}
	if departmentID != nil {
		query["department_id"] = *departmentID
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Meeting{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, m models.Meeting) (models.Meeting, error) {
	id, err := s.ids.Next(ctx, "meetings")
	if err != nil {
		return models.Meeting{}, err
	}
	now := time.Now().UTC()
	m.ID = id
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Meeting{}, err
	}
	return m, nil
}

// Patch carries the mutable meeting fields; nil means leave as is.
type Patch struct {
	Title       *string
	Date        *string
	Time        *string
	Attendees   *string
	Content     *string
	Decisions   *string
	NextMeeting *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Time != nil {
		set["time"] = *p.Time
	}
	if p.Attendees != nil {
		set["attendees"] = *p.Attendees
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Decisions != nil {
		set["decisions"] = *p.Decisions
	}
	if p.NextMeeting != nil {
		set["next_meeting"] = *p.NextMeeting
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a meeting by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
