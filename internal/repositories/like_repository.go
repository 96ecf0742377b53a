package repositories

import (
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Toggle(postID uint, userID uint, postOwnerID uint, fanout *events.Fanout) (liked bool, count int64, err error)
	HasUserLikedPost(postID uint, userID uint) (bool, error)
	CountByPostID(postID uint) (int64, error)
}

// PostgresLikeRepository implements LikeRepository on GORM
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Toggle flips the like state for (post, user): an existing row is
// deleted, an absent one inserted together with its notification. It
// returns the new state and the recomputed total. A duplicate-key race
// from concurrent double-submission surfaces as gorm.ErrDuplicatedKey
// for the caller to report as a conflict.
func (r *PostgresLikeRepository) Toggle(postID uint, userID uint, postOwnerID uint, fanout *events.Fanout) (bool, int64, error) {
	liked, err := r.HasUserLikedPost(postID, userID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		err = r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error
	} else {
		err = r.db.Transaction(func(tx *gorm.DB) error {
			like := models.Like{PostID: postID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			ev := events.PostLiked{PostID: postID, ActorID: userID, OwnerID: postOwnerID}
			return fanout.Emit(tx, ev)
		})
	}
	if err != nil {
		return false, 0, err
	}

	count, err := r.CountByPostID(postID)
	if err != nil {
		return false, 0, err
	}
	return !liked, count, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(postID uint, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountByPostID returns the total likes of a post
func (r *PostgresLikeRepository) CountByPostID(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
