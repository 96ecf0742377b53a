package repositories

import (
	"errors"
	"fmt"
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// slugLength is the size of the random URL token identifying a post.
const slugLength = 16

// Mention tokens are a lenient @word heuristic, not a strict grammar:
// the pattern can also match inside emails or code-like caption text.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post, media []models.PostMedia, fanout *events.Fanout) error
	GetDetailByID(id uint, viewerID uint) (*models.PostDetail, error)
	GetDetailBySlug(slug string, viewerID uint) (*models.PostDetail, error)
	ListByUserID(userID uint, viewerID uint) ([]models.PostDetail, error)
	ListShared(viewerID uint) ([]models.PostDetail, error)
	ListTagged(mentionedUserID uint, viewerID uint) ([]models.PostDetail, error)
	GetOwnerID(postID uint) (uint, error)
	DeletePost(postID uint, requesterID uint) error
	CountByUserID(userID uint) (int64, error)
}

// PostgresPostRepository implements PostRepository on GORM
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// extractMentionHandles returns the distinct @handle tokens of a caption
// in order of first appearance.
func extractMentionHandles(caption string) []string {
	matches := mentionPattern.FindAllStringSubmatch(caption, -1)
	seen := make(map[string]bool, len(matches))
	var handles []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			handles = append(handles, m[1])
		}
	}
	return handles
}

// CreatePost persists a post, its ordered media rows, and the mentions
// derived from the caption in one transaction. Handles that do not
// resolve to an existing user are silently ignored. Mention
// notifications go through the fan-out writer on the same transaction,
// so a failure anywhere rolls the whole creation back.
func (r *PostgresPostRepository) CreatePost(post *models.Post, media []models.PostMedia, fanout *events.Fanout) error {
	slug, err := gonanoid.New(slugLength)
	if err != nil {
		return fmt.Errorf("generating slug: %w", err)
	}
	post.Slug = slug

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		for i := range media {
			media[i].PostID = post.ID
			media[i].DisplayOrder = i
		}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}

		handles := extractMentionHandles(post.Caption)
		if len(handles) == 0 {
			return nil
		}
		var mentioned []models.User
		if err := tx.Select("id").Where("username IN ?", handles).Find(&mentioned).Error; err != nil {
			return err
		}
		for _, u := range mentioned {
			mention := models.Mention{PostID: post.ID, MentionedUserID: u.ID, ActorID: post.UserID}
			if err := tx.Create(&mention).Error; err != nil {
				return err
			}
			ev := events.PostMentioned{PostID: post.ID, ActorID: post.UserID, MentionedUserID: u.ID}
			if err := fanout.Emit(tx, ev); err != nil {
				return err
			}
		}
		return nil
	})
}

// detailQuery builds the enrichment join: author, optional song, like
// count, the most recent liker's handle, and the viewer's like state.
// A guest viewer (id 0) always gets is_liked = false.
func (r *PostgresPostRepository) detailQuery(viewerID uint) *gorm.DB {
	sel := `posts.id, posts.slug, posts.caption, posts.type, posts.aspect_ratio, posts.created_at,
		posts.song_start_time, posts.song_end_time,
		users.username AS author_username,
		users.profile_picture_url AS author_avatar,
		users.is_verified AS author_is_verified,
		songs.title AS song_title, songs.artist AS song_artist, songs.file_url AS song_url,
		(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
		(SELECT u2.username FROM likes
			JOIN users u2 ON likes.user_id = u2.id
			WHERE likes.post_id = posts.id
			ORDER BY likes.created_at DESC, likes.id DESC LIMIT 1) AS first_liker_username`

	q := r.db.Table("posts").
		Joins("JOIN users ON posts.user_id = users.id").
		Joins("LEFT JOIN songs ON posts.song_id = songs.id")
	if viewerID != 0 {
		sel += `,
		(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) > 0 AS is_liked`
		return q.Select(sel, viewerID)
	}
	return q.Select(sel)
}

// attachMedia loads each post's ordered media list.
func (r *PostgresPostRepository) attachMedia(posts []models.PostDetail) error {
	for i := range posts {
		err := r.db.Table("post_media").
			Select("media_url AS url, media_type AS type").
			Where("post_id = ?", posts[i].ID).
			Order("display_order ASC").
			Find(&posts[i].Media).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresPostRepository) findOneDetail(q *gorm.DB) (*models.PostDetail, error) {
	var rows []models.PostDetail
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	if err := r.attachMedia(rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// GetDetailByID retrieves one enriched post by numeric id
func (r *PostgresPostRepository) GetDetailByID(id uint, viewerID uint) (*models.PostDetail, error) {
	return r.findOneDetail(r.detailQuery(viewerID).Where("posts.id = ?", id))
}

// GetDetailBySlug retrieves one enriched post by its shareable slug
func (r *PostgresPostRepository) GetDetailBySlug(slug string, viewerID uint) (*models.PostDetail, error) {
	return r.findOneDetail(r.detailQuery(viewerID).Where("posts.slug = ?", slug))
}

func (r *PostgresPostRepository) listDetails(q *gorm.DB) ([]models.PostDetail, error) {
	var rows []models.PostDetail
	if err := q.Order("posts.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if err := r.attachMedia(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUserID retrieves a user's enriched posts, newest first
func (r *PostgresPostRepository) ListByUserID(userID uint, viewerID uint) ([]models.PostDetail, error) {
	return r.listDetails(r.detailQuery(viewerID).Where("posts.user_id = ?", userID))
}

// ListShared retrieves the shared feed, newest first
func (r *PostgresPostRepository) ListShared(viewerID uint) ([]models.PostDetail, error) {
	return r.listDetails(r.detailQuery(viewerID).Where("posts.type = ?", models.PostTypeShared))
}

// ListTagged retrieves the posts whose captions mention a user
func (r *PostgresPostRepository) ListTagged(mentionedUserID uint, viewerID uint) ([]models.PostDetail, error) {
	q := r.detailQuery(viewerID).
		Joins("JOIN mentions ON mentions.post_id = posts.id").
		Where("mentions.mentioned_user_id = ?", mentionedUserID)
	return r.listDetails(q)
}

// GetOwnerID returns the owner of a post
func (r *PostgresPostRepository) GetOwnerID(postID uint) (uint, error) {
	var post models.Post
	if err := r.db.Select("id", "user_id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return post.UserID, nil
}

// DeletePost removes a post and all of its dependent rows (likes,
// mentions, replies, top-level comments, media) in one transaction.
// Only the owner may delete; any failure rolls everything back.
func (r *PostgresPostRepository) DeletePost(postID uint, requesterID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.UserID != requesterID {
			return ErrNotOwner
		}

		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Mention{}).Error; err != nil {
			return err
		}
		// Replies first: their parents are the post's top-level comments.
		parentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)
		if err := tx.Where("parent_comment_id IN (?)", parentIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
}

// CountByUserID returns how many posts a user owns
func (r *PostgresPostRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
