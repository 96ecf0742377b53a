package models

// Song is admin-managed reference data attachable to posts and stories.
type Song struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	FileURL string `json:"file_url"`
}

// UploadSongRequest defines the multipart form fields for adding a song.
// The audio file travels separately as the "audioFile" part.
type UploadSongRequest struct {
	Title  string `form:"title" validate:"required"`
	Artist string `form:"artist" validate:"required"`
}
