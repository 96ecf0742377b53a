package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxPostFiles caps how many media files one post may carry.
const maxPostFiles = 10

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	likeRepository repositories.LikeRepository
	uploads        *storage.Disk
	fanout         *events.Fanout
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	likeRepo repositories.LikeRepository,
	uploads *storage.Disk,
	fanout *events.Fanout,
) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		likeRepository: likeRepo,
		uploads:        uploads,
		fanout:         fanout,
	}
}

// RegisterPostRoutes registers post-related routes. Retrieval uses the
// optional middleware so guests get like counts without a per-user flag.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth, optional echo.MiddlewareFunc) {
	g.POST("", h.CreatePost, auth)
	g.GET("/shared", h.GetSharedPosts, optional)
	g.GET("/by-slug/:slug", h.GetPostBySlug, optional)
	g.GET("/by/:username", h.GetPostsByUsername, optional)
	g.GET("/tagged/:username", h.GetTaggedPosts, optional)
	g.GET("/:id", h.GetPost, optional)
	g.POST("/:id/like", h.ToggleLike, auth)
	g.DELETE("/:id", h.DeletePost, auth)
}

// CreatePost creates a new post from a multipart form: caption, type,
// aspect ratio, optional song clip, and one or more media files.
func (h *PostHandler) CreatePost(c echo.Context) error {
	actorID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Type == "" {
		req.Type = models.PostTypePersonal
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one media file is required")
	}
	if len(files) > maxPostFiles {
		return echo.NewHTTPError(http.StatusBadRequest, "Too many files")
	}

	media := make([]models.PostMedia, 0, len(files))
	for _, file := range files {
		url, mediaType, err := h.uploads.SavePostMedia(file)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedType) {
				return echo.NewHTTPError(http.StatusBadRequest, "Only image and video files are allowed")
			}
			config.Logger.Error("saving post media failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
		}
		media = append(media, models.PostMedia{MediaURL: url, MediaType: mediaType})
	}

	post := &models.Post{
		UserID:        actorID,
		Caption:       req.Caption,
		Type:          req.Type,
		AspectRatio:   req.AspectRatio,
		SongID:        req.SongID,
		SongStartTime: req.SongStartTime,
		SongEndTime:   req.SongEndTime,
	}

	if err := h.postRepository.CreatePost(post, media, h.fanout); err != nil {
		config.Logger.Error("creating post failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while creating post")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Post created!", "postId": post.ID})
}

// GetPost retrieves a single enriched post by numeric id
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.postRepository.GetDetailByID(uint(id), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, post)
}

// GetPostBySlug retrieves a single enriched post by its shareable slug
func (h *PostHandler) GetPostBySlug(c echo.Context) error {
	post, err := h.postRepository.GetDetailBySlug(c.Param("slug"), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, post)
}

// GetSharedPosts retrieves the shared feed
func (h *PostHandler) GetSharedPosts(c echo.Context) error {
	posts, err := h.postRepository.ListShared(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, posts)
}

// GetPostsByUsername retrieves a user's posts
func (h *PostHandler) GetPostsByUsername(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	posts, err := h.postRepository.ListByUserID(user.ID, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, posts)
}

// GetTaggedPosts retrieves the posts whose captions mention a user
func (h *PostHandler) GetTaggedPosts(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	posts, err := h.postRepository.ListTagged(user.ID, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, posts)
}

// ToggleLike likes or unlikes a post and returns the new state with the
// recomputed total. A duplicate-key race from double-submission is a
// conflict, not a server error.
func (h *PostHandler) ToggleLike(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}
	actorID := getUserIDFromContext(c)

	ownerID, err := h.postRepository.GetOwnerID(uint(postID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	liked, count, err := h.likeRepository.Toggle(uint(postID), actorID, ownerID, h.fanout)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Action already performed")
		}
		config.Logger.Error("toggling like failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while toggling like")
	}

	return c.JSON(http.StatusOK, echo.Map{"liked": liked, "newLikeCount": count})
}

// DeletePost deletes a post and everything hanging off it
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if err := h.postRepository.DeletePost(uint(postID), getUserIDFromContext(c)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case errors.Is(err, repositories.ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
		default:
			config.Logger.Error("deleting post failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error while deleting post")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted."})
}
