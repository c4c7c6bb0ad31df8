// internal/domain/models/comment.go
package models

import "time"

// Comment target types.
const (
	CommentOnAnnouncement = "announcement"
	CommentOnMeeting      = "meeting"
	CommentOnWorship      = "worship"
)

// Comment is a short note attached to an announcement, meeting, or
// worship log. UserID is the author; the author-or-admin rule governs
// deletion. Comments are never edited.
type Comment struct {
	ID         int    `bson:"_id" json:"id"`
	TargetType string `bson:"target_type" json:"target_type"`
	TargetID   int    `bson:"target_id" json:"target_id"`
	UserID     int    `bson:"user_id" json:"user_id"`
	Content    string `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
