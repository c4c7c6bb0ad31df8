// internal/app/store/visits/visitstore.go
package visitstore

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
	return &Store{c: db.Collection("visits"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Visit, error) {
	var v models.Visit
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return models.Visit{}, err
	}
	return v, nil
}

// Filter narrows a visit listing. A non-nil MemberIDs set restricts to
// exactly those members; nil means no restriction.
type Filter struct {
	DepartmentID *int
	MemberID     *int
	TeacherID    *int
	DateFrom     string
	DateTo       string
	Priority     string
	MemberIDs    []int
}

// memberQuery merges the caller's member filter with the scope set. The
// scope only narrows: an equality filter inside the set is kept, one
// outside it matches nothing.
func (f Filter) memberQuery() (any, bool) {
	switch {
	case f.MemberID != nil && f.MemberIDs != nil:
		for _, id := range f.MemberIDs {
			if id == *f.MemberID {
				return *f.MemberID, true
			}
		}
		return bson.M{"$in": []int{}}, true
	case f.MemberID != nil:
		return *f.MemberID, true
	case f.MemberIDs != nil:
		return bson.M{"$in": f.MemberIDs}, true
	}
	return nil, false
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.DepartmentID != nil {
		q["department_id"] = *f.DepartmentID
	}
	if m, ok := f.memberQuery(); ok {
		q["member_id"] = m
	}
	if f.TeacherID != nil {
		q["teacher_id"] = *f.TeacherID
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
	if f.Priority != "" {
		q["priority"] = f.Priority
	}
	return q
}

// List returns matching visits, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Visit, error) {
	cur, err := s.c.Find(ctx, f.query(), options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Visit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches visits whose content contains the query,
// case-insensitive, within the given filter. Newest first, at most
// limit rows.
func (s *Store) Search(ctx context.Context, f Filter, q string, limit int64) ([]models.Visit, error) {
	query := f.query()
	query["content"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Visit{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestByMember returns each member's most recent visit date within
// the filter, keyed by member id. Members never visited are absent.
func (s *Store) LatestByMember(ctx context.Context, f Filter) (map[int]string, error) {
	visits, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	latest := map[int]string{}
	for _, v := range visits {
		if v.Date > latest[v.MemberID] {
			latest[v.MemberID] = v.Date
		}
	}
	return latest, nil
}

func (s *Store) Create(ctx context.Context, v models.Visit) (models.Visit, error) {
	id, err := s.ids.Next(ctx, "visits")
	if err != nil {
		return models.Visit{}, err
	}
	now := time.Now().UTC()
	v.ID = id
	if v.Priority == "" {
		v.Priority = models.VisitPriorityMedium
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Visit{}, err
	}
	return v, nil
}

// Patch carries the mutable visit fields; nil means leave as is.
// MemberID and TeacherID are immutable after create.
type Patch struct {
	Date          *string
	Type          *string
	Content       *string
	NextVisitDate *string
	Priority      *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Date != nil {
		set["date"] = *p.Date
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.NextVisitDate != nil {
		set["next_visit_date"] = *p.NextVisitDate
	}
	if p.Priority != nil {
		set["priority"] = *p.Priority
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a visit by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByMember removes every visit for a member (roster delete
// cleanup). Returns the number deleted.
func (s *Store) DeleteByMember(ctx context.Context, memberID int) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
