package models

import "time"

// Post visibility types. "pribadi" posts appear only on the owner's
// profile; "bersama" posts also show up on the shared feed.
const (
	PostTypePersonal = "pribadi"
	PostTypeShared   = "bersama"
)

// Post represents a feed post. The slug is a random URL-safe token used
// in shareable links, distinct from the numeric id.
type Post struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index"`
	Caption       string    `json:"caption" gorm:"type:text"`
	Slug          string    `json:"slug" gorm:"size:32;uniqueIndex"`
	Type          string    `json:"type" gorm:"size:10;default:pribadi"`
	AspectRatio   string    `json:"aspect_ratio" gorm:"size:10"`
	SongID        *uint     `json:"song_id" gorm:"index"`
	SongStartTime float64   `json:"song_start_time"`
	SongEndTime   float64   `json:"song_end_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostMedia is one ordered media item of a post. DisplayOrder is the
// zero-indexed upload position.
type PostMedia struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	PostID       uint   `json:"post_id" gorm:"index"`
	MediaURL     string `json:"media_url"`
	MediaType    string `json:"media_type" gorm:"size:10"` // image or video
	DisplayOrder int    `json:"display_order"`
}

// CreatePostRequest defines the multipart form fields for creating a post.
// Media files travel separately as the "files" parts.
type CreatePostRequest struct {
	Caption       string  `form:"caption" validate:"max=2200"`
	Type          string  `form:"type" validate:"omitempty,oneof=pribadi bersama"`
	AspectRatio   string  `form:"aspectRatio"`
	SongID        *uint   `form:"songId"`
	SongStartTime float64 `form:"songStartTime"`
	SongEndTime   float64 `form:"songEndTime"`
}

// PostMediaItem is a media entry as serialized in post responses.
type PostMediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// PostDetail is a post joined with its author, optional song, and the
// like counters computed for display. IsLiked is only resolved for
// authenticated viewers; guests always see false.
type PostDetail struct {
	ID                 uint            `json:"id"`
	Slug               string          `json:"slug"`
	Caption            string          `json:"caption"`
	Type               string          `json:"type"`
	AspectRatio        string          `json:"aspect_ratio"`
	CreatedAt          time.Time       `json:"created_at"`
	SongStartTime      float64         `json:"songStartTime"`
	SongEndTime        float64         `json:"songEndTime"`
	AuthorUsername     string          `json:"authorUsername"`
	AuthorAvatar       string          `json:"authorAvatar"`
	AuthorIsVerified   bool            `json:"authorIsVerified"`
	SongTitle          *string         `json:"songTitle"`
	SongArtist         *string         `json:"songArtist"`
	SongURL            *string         `json:"songUrl"`
	LikeCount          int64           `json:"likeCount"`
	FirstLikerUsername *string         `json:"firstLikerUsername"`
	IsLiked            bool            `json:"isLiked"`
	Media              []PostMediaItem `json:"media" gorm:"-"`
}
