package models

import "time"

// Notification types produced by the fan-out writer.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
)

// Notification is an inbox entry for a user. Append-only except for the
// is_read flip. TargetID points at a post when the type relates to one.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"` // recipient
	ActorID   uint      `json:"actor_id" gorm:"index"`
	Type      string    `json:"type" gorm:"size:20;index"`
	TargetID  *uint     `json:"target_id"`
	IsRead    bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// NotificationItem is a notification joined with its actor and, when the
// target is a post, that post's slug and first media URL.
type NotificationItem struct {
	ID            uint      `json:"id"`
	Type          string    `json:"type"`
	TargetID      *uint     `json:"target_id"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
	ActorUsername string    `json:"actor_username"`
	ActorAvatar   string    `json:"actor_avatar"`
	PostID        *uint     `json:"post_id"`
	PostSlug      *string   `json:"post_slug"`
	PostImageURL  *string   `json:"post_image_url"`
}
