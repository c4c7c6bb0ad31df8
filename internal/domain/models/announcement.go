// internal/domain/models/announcement.go
package models

import "time"

// Announcement priorities.
const (
	AnnouncementNormal    = "normal"
	AnnouncementImportant = "important"
	AnnouncementUrgent    = "urgent"
)

// Announcement is a department-scoped notice. AuthorID governs the
// author-or-admin mutation rule; pinned notices sort first.
type Announcement struct {
	ID           int    `bson:"_id" json:"id"`
	DepartmentID int    `bson:"department_id" json:"department_id"`
	AuthorID     int    `bson:"author_id" json:"author_id"`
	Title        string `bson:"title" json:"title"`
	Content      string `bson:"content" json:"content"`
	Priority     string `bson:"priority" json:"priority"`
	Pinned       bool   `bson:"pinned" json:"pinned"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
