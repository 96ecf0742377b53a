package repositories

import (
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification reads
// and read-state updates. Writes go through the events fan-out.
type NotificationRepository interface {
	ListByRecipient(userID uint) ([]models.NotificationItem, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAllAsRead(userID uint) error
}

// PostgresNotificationRepository implements NotificationRepository on GORM
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// ListByRecipient returns a user's notifications joined with the actor
// and, for post targets, the post slug and its first media URL for the
// inbox preview. Newest first.
func (r *PostgresNotificationRepository) ListByRecipient(userID uint) ([]models.NotificationItem, error) {
	var items []models.NotificationItem
	err := r.db.Table("notifications").
		Select(`notifications.id, notifications.type, notifications.target_id,
			notifications.is_read, notifications.created_at,
			users.username AS actor_username,
			users.profile_picture_url AS actor_avatar,
			posts.id AS post_id,
			posts.slug AS post_slug,
			post_media.media_url AS post_image_url`).
		Joins("JOIN users ON notifications.actor_id = users.id").
		Joins("LEFT JOIN posts ON notifications.target_id = posts.id").
		Joins("LEFT JOIN post_media ON post_media.post_id = posts.id AND post_media.display_order = 0").
		Where("notifications.user_id = ?", userID).
		Order("notifications.created_at DESC").
		Find(&items).Error
	return items, err
}

// GetUnreadCount counts a user's unread notifications
func (r *PostgresNotificationRepository) GetUnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllAsRead bulk-flips a user's unread notifications to read
func (r *PostgresNotificationRepository) MarkAllAsRead(userID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
