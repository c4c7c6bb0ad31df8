// internal/app/store/groups/groupstore.go

// Package groupstore persists groups and the member_groups join
// collection. The join is what group-leader scoping walks: led groups
// to memberships to a member-id set.
package groupstore

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
	c       *mongo.Collection
	members *mongo.Collection
	ids     *counters.Store
}

var ErrAlreadyMember = errors.New("member already belongs to this group")

func New(db *mongo.Database) *Store {
	return &Store{
		c:       db.Collection("groups"),
		members: db.Collection("member_groups"),
		ids:     counters.New(db),
	}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// List returns groups, optionally for one department, ordered by name.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.Group, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByLeader returns the groups a user leads.
func (s *Store) ListByLeader(ctx context.Context, leaderID int) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"leader_id": leaderID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	id, err := s.ids.Next(ctx, "groups")
	if err != nil {
		return models.Group{}, err
	}
	g.ID = id
	if g.Type == "" {
		g.Type = models.GroupCell
	}
	g.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Patch carries the mutable group fields; nil means leave as is.
// LeaderID uses a double pointer so a leader can be cleared.
type Patch struct {
	Name     *string
	Type     *string
	LeaderID **int
}

func (s *Store) Update(ctx context.Context, id int, p Patch) (int64, error) {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Type != nil {
		set["type"] = *p.Type
	}
	if p.LeaderID != nil {
		set["leader_id"] = *p.LeaderID
	}
	if len(set) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete removes a group and its memberships. Returns the number of
// groups deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.members.DeleteMany(ctx, bson.M{"group_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// AddMember enrolls a member in a group. Duplicate enrollment is
// rejected by the unique (group_id, member_id) index.
func (s *Store) AddMember(ctx context.Context, groupID, memberID int) error {
	mg := models.MemberGroup{
		GroupID:  groupID,
		MemberID: memberID,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := s.members.InsertOne(ctx, mg); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrAlreadyMember
		}
		return err
	}
	return nil
}

// RemoveMember drops a member from a group. Returns the number removed
// (0 or 1).
func (s *Store) RemoveMember(ctx context.Context, groupID, memberID int) (int64, error) {
	res, err := s.members.DeleteOne(ctx, bson.M{"group_id": groupID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// MemberIDs returns the member ids enrolled in a group.
func (s *Store) MemberIDs(ctx context.Context, groupID int) ([]int, error) {
	return s.memberIDs(ctx, bson.M{"group_id": groupID})
}

// MemberIDsOfGroups returns the union of member ids across groups.
// Empty input yields an empty, non-nil set.
func (s *Store) MemberIDsOfGroups(ctx context.Context, groupIDs []int) ([]int, error) {
	if len(groupIDs) == 0 {
		return []int{}, nil
	}
	return s.memberIDs(ctx, bson.M{"group_id": bson.M{"$in": groupIDs}})
}

func (s *Store) memberIDs(ctx context.Context, q bson.M) ([]int, error) {
	cur, err := s.members.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.MemberGroup
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	out := []int{}
	for _, r := range rows {
		if !seen[r.MemberID] {
			seen[r.MemberID] = true
			out = append(out, r.MemberID)
		}
	}
	return out, nil
}

// RemoveMemberEverywhere drops a member from all groups (roster delete
// cleanup). Returns the number of memberships removed.
func (s *Store) RemoveMemberEverywhere(ctx context.Context, memberID int) (int64, error) {
	res, err := s.members.DeleteMany(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
