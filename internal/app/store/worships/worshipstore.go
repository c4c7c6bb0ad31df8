// internal/app/store/worships/worshipstore.go
package worshipstore

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
	return &Store{c: db.Collection("worships"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Worship, error) {
	var w models.Worship
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		return models.Worship{}, err
	}
	return w, nil
}

// Filter narrows a worship-log listing by department and date range.
type Filter struct {
	DepartmentID *int
	DateFrom     string
	DateTo       string
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.DepartmentID != nil {
		q["department_id"] = *f.DepartmentID
	}
	if f.DateFrom != "" || f.DateTo != "" {
		rng := bson.M{}
		if f.DateFrom != "" {
			rng["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			rng["$lte"] = f.DateTo
		}
		q["date"] = rng
	}
	return q
}

// List returns worship logs, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Worship, error) {
	cur, err := s.c.Find(ctx, f.query(), options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Worship
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches worship logs whose title, scripture, or notes contain
// the query, case-insensitive, within the given filter. Newest first,
// at most limit rows.
func (s *Store) Search(ctx context.Context, f Filter, q string, limit int64) ([]models.Worship, error) {
	query := f.query()
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	query["$or"] = []bson.M{{"title": rx}, {"scripture": rx}, {"notes": rx}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Worship{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, w models.Worship) (models.Worship, error) {
	id, err := s.ids.Next(ctx, "worships")
	if err != nil {
		return models.Worship{}, err
	}
	now := time.Now().UTC()
	w.ID = id
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Worship{}, err
	}
	return w, nil
}

// Patch carries the mutable worship-log fields; nil means leave as is.
type Patch struct {
	Date            *string
	Time            *string
	Title           *string
	Scripture       *string
	Preacher        *string
	Content         *string
	WorshipSongs    *string
	SpecialEvents   *string
	AttendanceCount *int
	Offering        *int
	Notes           *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Time != nil {
		set["time"] = *p.Time
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Scripture != nil {
		set["scripture"] = *p.Scripture
	}
	if p.Preacher != nil {
		set["preacher"] = *p.Preacher
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.WorshipSongs != nil {
		set["worship_songs"] = *p.WorshipSongs
	}
	if p.SpecialEvents != nil {
		set["special_events"] = *p.SpecialEvents
	}
	if p.AttendanceCount != nil {
		set["attendance_count"] = *p.AttendanceCount
	}
	if p.Offering != nil {
		set["offering"] = *p.Offering
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a worship log by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
