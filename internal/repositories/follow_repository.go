package repositories

import (
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge operations
type FollowRepository interface {
	Toggle(followerID uint, followingID uint, fanout *events.Fanout) (following bool, err error)
	IsFollowing(followerID uint, followingID uint) (bool, error)
	CountFollowers(userID uint) (int64, error)
	CountFollowing(userID uint) (int64, error)
	ListFollowers(userID uint) ([]models.UserCompact, error)
	ListFollowing(userID uint) ([]models.UserCompact, error)
}

// PostgresFollowRepository implements FollowRepository on GORM
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Toggle flips the follow edge: an existing edge is deleted (unfollow),
// an absent one inserted together with its notification (follow).
// Self-follow is rejected by the handler before reaching here.
func (r *PostgresFollowRepository) Toggle(followerID uint, followingID uint, fanout *events.Fanout) (bool, error) {
	following, err := r.IsFollowing(followerID, followingID)
	if err != nil {
		return false, err
	}

	if following {
		err = r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Delete(&models.Follower{}).Error
	} else {
		err = r.db.Transaction(func(tx *gorm.DB) error {
			edge := models.Follower{FollowerID: followerID, FollowingID: followingID}
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
			return fanout.Emit(tx, events.UserFollowed{ActorID: followerID, TargetID: followingID})
		})
	}
	if err != nil {
		return false, err
	}
	return !following, nil
}

// IsFollowing checks whether the edge exists
func (r *PostgresFollowRepository) IsFollowing(followerID uint, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// CountFollowers returns how many users follow userID
func (r *PostgresFollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing returns how many users userID follows
func (r *PostgresFollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follower{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// ListFollowers returns the users following userID
func (r *PostgresFollowRepository) ListFollowers(userID uint) ([]models.UserCompact, error) {
	var users []models.UserCompact
	err := r.db.Table("users").
		Select("users.id, users.username, users.full_name, users.profile_picture_url, users.is_verified").
		Joins("JOIN followers ON users.id = followers.follower_id").
		Where("followers.following_id = ?", userID).
		Find(&users).Error
	return users, err
}

// ListFollowing returns the users userID follows
func (r *PostgresFollowRepository) ListFollowing(userID uint) ([]models.UserCompact, error) {
	var users []models.UserCompact
	err := r.db.Table("users").
		Select("users.id, users.username, users.full_name, users.profile_picture_url, users.is_verified").
		Joins("JOIN followers ON users.id = followers.following_id").
		Where("followers.follower_id = ?", userID).
		Find(&users).Error
	return users, err
}
