package repositories

import (
	"errors"

	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// SongRepository defines the interface for song reference data
type SongRepository interface {
	CreateSong(song *models.Song) error
	GetSongByID(id uint) (*models.Song, error)
	ListSongs() ([]models.Song, error)
}

// PostgresSongRepository implements SongRepository on GORM
type PostgresSongRepository struct {
	db *gorm.DB
}

// NewPostgresSongRepository creates a new PostgresSongRepository
func NewPostgresSongRepository(db *gorm.DB) *PostgresSongRepository {
	return &PostgresSongRepository{db: db}
}

// CreateSong adds a song to the library
func (r *PostgresSongRepository) CreateSong(song *models.Song) error {
	return r.db.Create(song).Error
}

// GetSongByID retrieves one song
func (r *PostgresSongRepository) GetSongByID(id uint) (*models.Song, error) {
	var song models.Song
	if err := r.db.First(&song, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &song, nil
}

// ListSongs returns the whole library ordered by artist, then title
func (r *PostgresSongRepository) ListSongs() ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Order("artist, title").Find(&songs).Error
	return songs, err
}
