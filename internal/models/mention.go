package models

import "time"

// Mention records that a post caption mentioned a user via an @handle
// token resolvable to an existing account.
type Mention struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          uint      `json:"post_id" gorm:"index"`
	MentionedUserID uint      `json:"mentioned_user_id" gorm:"index"`
	ActorID         uint      `json:"actor_id"`
	CreatedAt       time.Time `json:"created_at"`
}
