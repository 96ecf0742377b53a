package models

import "time"

// Note is a short text note on a user's profile, independent of posts.
type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNoteRequest defines the request body for creating a note
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}
