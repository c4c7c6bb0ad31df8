// internal/app/store/events/eventstore.go
package eventstore

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
	c            *mongo.Collection
	participants *mongo.Collection
	ids          *counters.Store
}

var ErrAlreadyRegistered = errors.New("member already registered for this event")

func New(db *mongo.Database) *Store {
	return &Store{
		c:            db.Collection("events"),
		participants: db.Collection("event_participants"),
		ids:          counters.New(db),
	}
}

func (s *Store) GetByID(ctx context.Context, id int) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// List returns events, soonest event date first.
func (s *Store) List(ctx context.Context, departmentID *int) ([]models.Event, error) {
	q := bson.M{}
	if departmentID != nil {
		q["department_id"] = *departmentID
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	id, err := s.ids.Next(ctx, "events")
	if err != nil {
		return models.Event{}, err
	}
	e.ID = id
	e.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Delete removes an event and its participant rows. Returns the number
// of events deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id int) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		if _, err := s.participants.DeleteMany(ctx, bson.M{"event_id": id}); err != nil {
			return res.DeletedCount, err
		}
	}
	return res.DeletedCount, nil
}

// Register enrolls a member. Duplicate registration is rejected by the
// unique (event_id, member_id) index.
func (s *Store) Register(ctx context.Context, eventID, memberID int) (models.EventParticipant, error) {
	p := models.EventParticipant{
		EventID:      eventID,
		MemberID:     memberID,
		Status:       models.ParticipantRegistered,
		RegisteredAt: time.Now().UTC(),
	}
	if _, err := s.participants.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.EventParticipant{}, ErrAlreadyRegistered
		}
		return models.EventParticipant{}, err
	}
	return p, nil
}

// Participants returns an event's participant rows.
func (s *Store) Participants(ctx context.Context, eventID int) ([]models.EventParticipant, error) {
	cur, err := s.participants.Find(ctx, bson.M{"event_id": eventID},
		options.Find().SetSort(bson.D{{Key: "registered_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EventParticipant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ParticipantCount returns how many members an event has.
func (s *Store) ParticipantCount(ctx context.Context, eventID int) (int64, error) {
	return s.participants.CountDocuments(ctx, bson.M{"event_id": eventID})
}

// SetParticipantStatus marks a participant registered/attended/absent.
// Returns the number matched (0 or 1).
func (s *Store) SetParticipantStatus(ctx context.Context, eventID, memberID int, status string) (int64, error) {
	res, err := s.participants.UpdateOne(ctx,
		bson.M{"event_id": eventID, "member_id": memberID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Unregister drops a member from an event. Returns the number removed
// (0 or 1).
func (s *Store) Unregister(ctx context.Context, eventID, memberID int) (int64, error) {
	res, err := s.participants.DeleteOne(ctx, bson.M{"event_id": eventID, "member_id": memberID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
