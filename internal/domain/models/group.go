// internal/domain/models/group.go
package models

import "time"

// Group types.
const (
	GroupCell  = "cell"
	GroupClass = "class"
	GroupTeam  = "team"
)

// Group is a sub-department cell/class/team. LeaderID, when set, points
// at a User; leadership is a capability independent of role. A leader
// who is not an admin sees only their groups' members in attendance and
// visit listings.
type Group struct {
	ID           int    `bson:"_id" json:"id"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	Name         string `bson:"name" json:"name"`
	Type         string `bson:"type" json:"type"`
	LeaderID     *int   `bson:"leader_id" json:"leader_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MemberGroup joins members to groups; unique per (group_id, member_id).
type MemberGroup struct {
	MemberID int       `bson:"member_id" json:"member_id"`
	GroupID  int       `bson:"group_id" json:"group_id"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}
