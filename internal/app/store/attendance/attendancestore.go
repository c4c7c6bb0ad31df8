// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance"), ids: counters.New(db)}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Attendance, error) {
	var a models.Attendance
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Attendance{}, err
	}
	return a, nil
}

// Filter narrows an attendance listing. Dates are YYYY-MM-DD strings,
// which sort lexicographically in calendar order. A non-nil MemberIDs
// set restricts to exactly those members; nil means no restriction.
type Filter struct {
	DepartmentID *int
	MemberID     *int
	Date         string
	DateFrom     string
	DateTo       string
	Status       string
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
	if f.Date != "" {
		q["date"] = f.Date
	} else if f.DateFrom != "" || f.DateTo != "" {
		rng := bson.M{}
		if f.DateFrom != "" {
			rng["$gte"] = f.DateFrom
		}
		if f.DateTo != "" {
			rng["$lte"] = f.DateTo
		}
		q["date"] = rng
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

// List returns matching records, newest date first, then by member.
func (s *Store) List(ctx context.Context, f Filter) ([]models.Attendance, error) {
	sort := bson.D{{Key: "date", Value: -1}, {Key: "member_id", Value: 1}}
	cur, err := s.c.Find(ctx, f.query(), options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Attendance
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Record is one (member, date) observation to upsert.
type Record struct {
	MemberID     int
	DepartmentID int
	Date         string
	Status       string
	Notes        string
}

// Upsert writes the record keyed by (member_id, date): if a row for the
// pair exists its status and notes are overwritten, otherwise a new row
// is inserted with a fresh id. Concurrent writers for the same pair
// converge on one row (the unique index guarantees it); last writer
// wins on status.
func (s *Store) Upsert(ctx context.Context, rec Record) (models.Attendance, error) {
	key := bson.M{"member_id": rec.MemberID, "date": rec.Date}
	set := bson.M{
		"status":        rec.Status,
		"notes":         rec.Notes,
		"department_id": rec.DepartmentID,
		"updated_at":    time.Now().UTC(),
	}

	res, err := s.c.UpdateOne(ctx, key, bson.M{"$set": set})
	if err != nil {
		return models.Attendance{}, err
	}
	if res.MatchedCount == 0 {
		id, err := s.ids.Next(ctx, "attendance")
		if err != nil {
			return models.Attendance{}, err
		}
		now := time.Now().UTC()
		doc := models.Attendance{
			ID:           id,
			MemberID:     rec.MemberID,
			DepartmentID: rec.DepartmentID,
			Date:         rec.Date,
			Status:       rec.Status,
			Notes:        rec.Notes,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := s.c.InsertOne(ctx, doc); err != nil {
			if !wafflemongo.IsDup(err) {
				return models.Attendance{}, err
			}
			// Lost the insert race; fold onto the winner's row.
			if _, err := s.c.UpdateOne(ctx, key, bson.M{"$set": set}); err != nil {
				return models.Attendance{}, err
			}
		}
	}

	var out models.Attendance
	if err := s.c.FindOne(ctx, key).Decode(&out); err != nil {
		return models.Attendance{}, err
	}
	return out, nil
}

// BulkUpsert applies Upsert to each record independently. One bad
// record does not abort the rest; failures come back per index.
func (s *Store) BulkUpsert(ctx context.Context, recs []Record) ([]models.Attendance, map[int]error) {
	var out []models.Attendance
	failed := map[int]error{}
	for i, rec := range recs {
		a, err := s.Upsert(ctx, rec)
		if err != nil {
			failed[i] = err
			continue
		}
		out = append(out, a)
	}
	return out, failed
}

// Delete removes one record by id. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByDate removes every record for a worship day, optionally
// confined to one department. Returns the number deleted.
func (s *Store) DeleteByDate(ctx context.Context, date string, departmentID *int) (int64, error) {
	q := bson.M{"date": date}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	res, err := s.c.DeleteMany(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByMember removes every record for a member (roster delete
// cleanup). Returns the number deleted.
func (s *Store) DeleteByMember(ctx context.Context, memberID int) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
