package models

import "time"

// Comment represents a comment on a post. ParentCommentID links a reply
// to its top-level comment; the tree is at most two levels deep and
// replies to replies are rejected at insert time.
type Comment struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PostID          uint      `json:"post_id" gorm:"index"`
	UserID          uint      `json:"user_id" gorm:"index"`
	Content         string    `json:"content" gorm:"type:text"`
	ParentCommentID *uint     `json:"parent_comment_id" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Content         string `json:"content" validate:"required"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

// CommentWithAuthor is a comment joined with its author's public fields.
// Replies is filled when assembling the two-level comment tree.
type CommentWithAuthor struct {
	ID                uint                `json:"id"`
	Content           string              `json:"content"`
	CreatedAt         time.Time           `json:"created_at"`
	ParentCommentID   *uint               `json:"parent_comment_id"`
	Username          string              `json:"username"`
	ProfilePictureURL string              `json:"profile_picture_url"`
	IsVerified        bool                `json:"is_verified"`
	Replies           []CommentWithAuthor `json:"replies" gorm:"-"`
}
