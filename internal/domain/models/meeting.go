// internal/domain/models/meeting.go
package models

import "time"

// Meeting is a department-scoped meeting log. Decisions/content may be
// AI-generated summaries; the core treats them as opaque text.
type Meeting struct {
	ID           int    `bson:"_id" json:"id"`
	Title        string `bson:"title" json:"title"`
	Date         string `bson:"date" json:"date"`
	Time         string `bson:"time,omitempty" json:"time,omitempty"`
	Attendees    string `bson:"attendees,omitempty" json:"attendees,omitempty"`
	Content      string `bson:"content,omitempty" json:"content,omitempty"`
	Decisions    string `bson:"decisions,omitempty" json:"decisions,omitempty"`
	NextMeeting  string `bson:"next_meeting,omitempty" json:"next_meeting,omitempty"`
	DepartmentID int    `bson:"department_id" json:"department_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
