// internal/domain/models/member.go
package models

import "time"

// Member statuses.
const (
	MemberActive         = "active"
	MemberLongTermAbsent = "long_term_absent"
)

// Member is a rostered youth. Owned by exactly one department.
type Member struct {
	ID           int    `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name"`
	BirthDate    string `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	ParentPhone  string `bson:"parent_phone,omitempty" json:"parent_phone,omitempty"`
	Grade        string `bson:"grade,omitempty" json:"grade,omitempty"`
	Group        string `bson:"group,omitempty" json:"group,omitempty"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	Status       string `bson:"status" json:"status"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`
	Notes        string `bson:"notes,omitempty" json:"notes,omitempty"`
	ProfilePhoto string `bson:"profile_photo,omitempty" json:"profile_photo,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
