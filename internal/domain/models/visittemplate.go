// internal/domain/models/visittemplate.go
package models

import "time"

// VisitTemplate is reusable pastoral-care content, scoped to the author
// and their department.
type VisitTemplate struct {
	ID           int    `bson:"_id" json:"id"`
	UserID       int    `bson:"user_id" json:"user_id"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	Title        string `bson:"title" json:"title"`
	Content      string `bson:"content" json:"content"`
	Category     string `bson:"category" json:"category"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
