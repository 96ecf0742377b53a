package repositories

import (
	"errors"
	"time"

	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(story *models.Story) error
	GetStoryByID(id uint) (*models.Story, error)
	ListActiveByUserID(userID uint, now time.Time) ([]models.Story, error)
	DeleteStory(storyID uint, requesterID uint) error
	DeleteExpired(now time.Time) (int64, error)
}

// PostgresStoryRepository implements StoryRepository on GORM
type PostgresStoryRepository struct {
	db *gorm.DB
}

// NewPostgresStoryRepository creates a new PostgresStoryRepository
func NewPostgresStoryRepository(db *gorm.DB) *PostgresStoryRepository {
	return &PostgresStoryRepository{db: db}
}

// CreateStory persists a story, stamping its expiry at now + StoryTTL
func (r *PostgresStoryRepository) CreateStory(story *models.Story) error {
	story.ExpiresAt = time.Now().Add(models.StoryTTL)
	return r.db.Create(story).Error
}

// GetStoryByID retrieves a story by ID
func (r *PostgresStoryRepository) GetStoryByID(id uint) (*models.Story, error) {
	var story models.Story
	if err := r.db.First(&story, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &story, nil
}

// ListActiveByUserID returns a user's unexpired stories, newest first.
// Expired rows the sweep has not reached yet are filtered out here, so
// they never reach clients.
func (r *PostgresStoryRepository) ListActiveByUserID(userID uint, now time.Time) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at DESC").
		Find(&stories).Error
	return stories, err
}

// DeleteStory removes a story if the requester owns it
func (r *PostgresStoryRepository) DeleteStory(storyID uint, requesterID uint) error {
	story, err := r.GetStoryByID(storyID)
	if err != nil {
		return err
	}
	if story.UserID != requesterID {
		return ErrNotOwner
	}
	return r.db.Delete(&models.Story{}, storyID).Error
}

// DeleteExpired removes every story past its expiry and reports how
// many rows went away.
func (r *PostgresStoryRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Where("expires_at < ?", now).Delete(&models.Story{})
	return res.RowsAffected, res.Error
}
