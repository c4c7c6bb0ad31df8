// internal/domain/models/worship.go
package models

import "time"

// Worship is a department-scoped worship service log.
type Worship struct {
	ID              int    `bson:"_id" json:"id"`
	Date            string `bson:"date" json:"date"`
	Time            string `bson:"time,omitempty" json:"time,omitempty"`
	Title           string `bson:"title" json:"title"` // sermon title
	Scripture       string `bson:"scripture,omitempty" json:"scripture,omitempty"`
	Preacher        string `bson:"preacher,omitempty" json:"preacher,omitempty"`
	Content         string `bson:"content,omitempty" json:"content,omitempty"`
	WorshipSongs    string `bson:"worship_songs,omitempty" json:"worship_songs,omitempty"`
	SpecialEvents   string `bson:"special_events,omitempty" json:"special_events,omitempty"`
	AttendanceCount int    `bson:"attendance_count" json:"attendance_count"`
	Offering        int    `bson:"offering" json:"offering"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
	DepartmentID    int    `bson:"department_id" json:"department_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
