// internal/domain/models/attendancegoal.go
package models

import "time"

// AttendanceGoal periods.
const (
	GoalWeekly    = "weekly"
	GoalMonthly   = "monthly"
	GoalQuarterly = "quarterly"
)

// AttendanceGoal is a department's target attendance rate (0-100).
// Goals are append-only history; the "current" goal is simply the most
// recently created one.
type AttendanceGoal struct {
	ID           int    `bson:"_id" json:"id"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	TargetRate   int    `bson:"target_rate" json:"target_rate"`
	Period       string `bson:"period" json:"period"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
