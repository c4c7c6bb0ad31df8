// internal/app/store/tags/tagstore.go
package tagstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/danielhkim/shepherdhub/internal/app/store/counters"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

type Store struct {
	c          *mongo.Collection
	memberTags *mongo.Collection
	ids        *counters.Store
}

var ErrAlreadyTagged = errors.New("member already has this tag")

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("tags"),
		memberTags: db.Collection("member_tags"),
		ids:        counters.New(db),
	}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Tag, error) {
	var t models.Tag
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

// List returns tags, optionally for one department, ordered by name.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.Tag, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tag
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, t models.Tag) (models.Tag, error) {
	id, err := s.ids.Next(ctx, "tags")
	if err != nil {
		return models.Tag{}, err
	}
	t.ID = id
	t.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Tag{}, err
	}
	return t, nil
}

// Delete removes a tag and its attachments. Returns the number of tags
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.memberTags.DeleteMany(ctx, bson.M{"tag_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// Attach puts a tag on a member. Duplicate attachment is rejected by
// the unique (tag_id, member_id) index.
func (s *Store) Attach(ctx context.Context, tagID, memberID int) error {
	mt := models.MemberTag{TagID: tagID, MemberID: memberID}
	if _, err := s.memberTags.InsertOne(ctx, mt); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyTagged
		}
		return err
	}
	return nil
}

// Detach removes a tag from a member. Returns the number removed (0 or 1).
func (s *Store) Detach(ctx context.Context, tagID, memberID int) (int64, error) {
	res, err := s.memberTags.DeleteOne(ctx, bson.M{"tag_id": tagID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TagIDsOfMember returns the tag ids attached to a member.
func (s *Store) TagIDsOfMember(ctx context.Context, memberID int) ([]int, error) {
	cur, err := s.memberTags.Find(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.MemberTag
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := []int{}
	for _, r := range rows {
		out = append(out, r.TagID)
	}
	return out, nil
}

// MemberIDsOfTag returns the member ids carrying a tag.
func (s *Store) MemberIDsOfTag(ctx context.Context, tagID int) ([]int, error) {
	cur, err := s.memberTags.Find(ctx, bson.M{"tag_id": tagID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.MemberTag
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := []int{}
	for _, r := range rows {
		out = append(out, r.MemberID)
	}
	return out, nil
}

// DetachMemberEverywhere removes all tags from a member (roster delete
// cleanup). Returns the number of attachments removed.
func (s *Store) DetachMemberEverywhere(ctx context.Context, memberID int) (int64, error) {
	res, err := s.memberTags.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
