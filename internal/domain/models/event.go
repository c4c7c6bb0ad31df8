// internal/domain/models/event.go
package models

import "time"

// EventParticipant statuses.
const (
	ParticipantRegistered = "registered"
	ParticipantAttended   = "attended"
	ParticipantAbsent     = "absent"
)

// Event is a department-scoped activity members can register for.
type Event struct {
	ID              int    `bson:"_id" json:"id"`
	DepartmentID    int    `bson:"department_id" json:"department_id"`
	Title           string `bson:"title" json:"title"`
	Description     string `bson:"description,omitempty" json:"description,omitempty"`
	EventDate       string `bson:"event_date" json:"event_date"`
	Location        string `bson:"location,omitempty" json:"location,omitempty"`
	MaxParticipants int    `bson:"max_participants,omitempty" json:"max_participants,omitempty"`
	CreatedBy       int    `bson:"created_by" json:"created_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// EventParticipant joins members to events; unique per (event_id, member_id).
type EventParticipant struct {
	EventID      int       `bson:"event_id" json:"event_id"`
	MemberID     int       `bson:"member_id" json:"member_id"`
	Status       string    `bson:"status" json:"status"`
	RegisteredAt time.Time `bson:"registered_at" json:"registered_at"`
}
