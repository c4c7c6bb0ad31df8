// internal/domain/models/visit.go
package models

import "time"

// Visit priorities.
const (
	VisitPriorityLow    = "low"
	VisitPriorityMedium = "medium"
	VisitPriorityHigh   = "high"
)

// Visit is a logged pastoral-care contact (home visit, call, text).
// TeacherID is the author; the author-or-admin rule governs mutation.
// DepartmentID is denormalized from the member at write time.
type Visit struct {
	ID            int    `bson:"_id" json:"id"`
	MemberID      int    `bson:"member_id" json:"member_id"`
	TeacherID     int    `bson:"teacher_id" json:"teacher_id"`
	DepartmentID  int    `bson:"department_id" json:"department_id"`
	Date          string `bson:"date" json:"date"`
	Type          string `bson:"type,omitempty" json:"type,omitempty"`
	Content       string `bson:"content" json:"content"`
	NextVisitDate string `bson:"next_visit_date,omitempty" json:"next_visit_date,omitempty"`
	Priority      string `bson:"priority" json:"priority"`
	TemplateID    *int   `bson:"template_id,omitempty" json:"template_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
