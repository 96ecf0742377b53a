package models

import "time"

// StoryTTL is how long a story stays retrievable after creation.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral media item. ExpiresAt is set to creation time
// plus StoryTTL; retrieval filters on it and the hourly sweep deletes
// rows past it.
type Story struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	UserID        uint       `json:"user_id" gorm:"index"`
	MediaURL      string     `json:"media_url"`
	MediaType     string     `json:"media_type" gorm:"size:10"` // image or video
	SongID        *uint      `json:"song_id"`
	SongStartTime *float64   `json:"song_start_time"`
	SongEndTime   *float64   `json:"song_end_time"`
	VideoStart    float64    `json:"video_start"`
	VideoEnd      *float64   `json:"video_end"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateStoryRequest defines the multipart form fields for uploading a
// story. The media file travels separately as the "media" part.
type CreateStoryRequest struct {
	SongID        *uint    `form:"songId"`
	SongStartTime *float64 `form:"songStartTime"`
	SongEndTime   *float64 `form:"songEndTime"`
	VideoStart    float64  `form:"videoStart"`
	VideoEnd      *float64 `form:"videoEnd"`
}
