package models

import "time"

// Follower represents a follow edge. At most one edge per ordered
// (follower, following) pair; self-follow is rejected before insert.
type Follower struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Follower) TableName() string { return "followers" }
