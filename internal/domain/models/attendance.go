// internal/domain/models/attendance.go
package models

import "time"

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
)

// Attendance is one member's record for one worship day.
//
// (MemberID, Date) is the natural key: a second write for the same pair
// upserts instead of duplicating. DepartmentID is denormalized from the
// member at write time so list queries can scope without a join; member
// transfer between departments is not supported, which keeps the copy
// from going stale.
type Attendance struct {
	ID           int    `bson:"_id" json:"id"`
	MemberID     int    `bson:"member_id" json:"member_id"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	Date         string `bson:"date" json:"date"` // YYYY-MM-DD
	Status       string `bson:"status" json:"status"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
