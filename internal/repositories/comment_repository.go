package repositories

import (
	"errors"

	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment, postOwnerID uint, parentAuthorID *uint, fanout *events.Fanout) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetWithAuthor(id uint) (*models.CommentWithAuthor, error)
	ListByPostID(postID uint) ([]models.CommentWithAuthor, error)
}

// PostgresCommentRepository implements CommentRepository on GORM
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment inserts the comment and fans out its notifications in
// one transaction. parentAuthorID is nil for top-level comments.
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment, postOwnerID uint, parentAuthorID *uint, fanout *events.Fanout) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		ev := events.CommentAdded{
			PostID:         comment.PostID,
			ActorID:        comment.UserID,
			OwnerID:        postOwnerID,
			ParentAuthorID: parentAuthorID,
		}
		return fanout.Emit(tx, ev)
	})
}

// GetCommentByID retrieves a comment by ID
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *PostgresCommentRepository) authorJoin() *gorm.DB {
	return r.db.Table("comments").
		Select(`comments.id, comments.content, comments.created_at, comments.parent_comment_id,
			users.username, users.profile_picture_url, users.is_verified`).
		Joins("JOIN users ON comments.user_id = users.id")
}

// GetWithAuthor retrieves one comment joined with its author's public fields
func (r *PostgresCommentRepository) GetWithAuthor(id uint) (*models.CommentWithAuthor, error) {
	var rows []models.CommentWithAuthor
	if err := r.authorJoin().Where("comments.id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// ListByPostID retrieves a post's comments with authors, oldest first.
// The result is flat; callers assemble the two-level reply tree.
func (r *PostgresCommentRepository) ListByPostID(postID uint) ([]models.CommentWithAuthor, error) {
	var rows []models.CommentWithAuthor
	err := r.authorJoin().
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC").
		Find(&rows).Error
	return rows, err
}
