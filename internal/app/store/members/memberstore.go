// internal/app/store/members/memberstore.go
package memberstore

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
	return &Store{c: db.Collection("members"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Filter narrows a member listing. A non-nil MemberIDs set restricts to
// exactly those ids (the group-leader scope); nil means no restriction.
type Filter struct {
	DepartmentID *int
	Status       string
	Grade        string
	MemberIDs    []int
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.DepartmentID != nil {
		q["department_id"] = *f.DepartmentID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Grade != "" {
		q["grade"] = f.Grade
	}
	if f.MemberIDs != nil {
		q["_id"] = bson.M{"$in": f.MemberIDs}
	}
	return q
}

func (s *Store) List(ctx context.Context, f Filter) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, f.query(), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// SearchByName matches members whose name contains the query,
// case-insensitive, within the given filter.
func (s *Store) SearchByName(ctx context.Context, f Filter, q string) ([]models.Member, error) {
	query := f.query()
	query["name"] = bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	cur, err := s.c.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches members whose name, phone, or parent phone contains
// the query, case-insensitive, within the given filter. At most limit
// rows are returned.
func (s *Store) Search(ctx context.Context, f Filter, q string, limit int64) ([]models.Member, error) {
	query := f.query()
	rx := bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
	query["$or"] = []bson.M{{"name": rx}, {"phone": rx}, {"parent_phone": rx}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Member{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	id, err := s.ids.Next(ctx, "members")
	if err != nil {
		return models.Member{}, err
	}
	now := time.Now().UTC()
	m.ID = id
	if m.Status == "" {
		m.Status = models.MemberActive
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Patch carries the mutable member fields; nil means leave as is.
// DepartmentID is absent on purpose: members do not transfer between
// departments, which keeps the department_id denormalized onto
// attendance and visit rows from going stale.
type Patch struct {
	Name         *string
	BirthDate    *string
	Phone        *string
	ParentPhone  *string
	Grade        *string
	Group        *string
	Status       *string
	Address      *string
	Notes        *string
	ProfilePhoto *string
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.BirthDate != nil {
		set["birth_date"] = *p.BirthDate
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.ParentPhone != nil {
		set["parent_phone"] = *p.ParentPhone
	}
	if p.Grade != nil {
		set["grade"] = *p.Grade
	}
	if p.Group != nil {
		set["group"] = *p.Group
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.ProfilePhoto != nil {
		set["profile_photo"] = *p.ProfilePhoto
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a member by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
