// internal/domain/models/tag.go
package models

import "time"

// Tag is a department-scoped label for members.
type Tag struct {
	ID           int    `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Color        string `bson:"color" json:"color"`
	DepartmentID int    `bson:"department_id" json:"department_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// MemberTag attaches a tag to a member; unique per (tag_id, member_id).
type MemberTag struct {
	MemberID int `bson:"member_id" json:"member_id"`
	TagID    int `bson:"tag_id" json:"tag_id"`
}
