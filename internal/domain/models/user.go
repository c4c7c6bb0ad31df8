// internal/domain/models/user.go
package models

import "time"

// User is a staff actor (teacher or admin), distinct from Member (the
// youth being ministered to).
//
// Role is one of super_admin | department_admin | teacher. Two legacy
// spellings still appear in old databases: "admin" (≡ super_admin) and
// "user" (≡ teacher). They are normalized at the authorization boundary
// (authz.Canonical), never rewritten in storage.
//
// DepartmentID is nil only for super_admin.
type User struct {
	ID            int    `bson:"_id" json:"id"`
	Username      string `bson:"username" json:"username"`
	PasswordHash  string `bson:"password" json:"-"`
	Name          string `bson:"name" json:"name"`
	Role          string `bson:"role" json:"role"`
	DepartmentID  *int   `bson:"department_id" json:"department_id"`
	AssignedGrade string `bson:"assigned_grade,omitempty" json:"assigned_grade,omitempty"`
	AssignedGroup string `bson:"assigned_group,omitempty" json:"assigned_group,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
