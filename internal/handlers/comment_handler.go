package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	fanout            *events.Fanout
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, fanout *events.Fanout) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		fanout:            fanout,
	}
}

// RegisterCommentRoutes registers comment routes on the posts group
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/:id/comments", h.GetComments)
	g.POST("/:id/comments", h.CreateComment, auth)
}

// buildCommentTree nests replies under their top-level comments,
// preserving chronological order on both levels.
func buildCommentTree(flat []models.CommentWithAuthor) []models.CommentWithAuthor {
	index := make(map[uint]int, len(flat))
	roots := make([]models.CommentWithAuthor, 0, len(flat))
	for _, cm := range flat {
		if cm.ParentCommentID == nil {
			cm.Replies = []models.CommentWithAuthor{}
			roots = append(roots, cm)
			index[cm.ID] = len(roots) - 1
		}
	}
	for _, cm := range flat {
		if cm.ParentCommentID == nil {
			continue
		}
		if i, ok := index[*cm.ParentCommentID]; ok {
			roots[i].Replies = append(roots[i].Replies, cm)
		}
	}
	return roots
}

// GetComments returns a post's comments as a two-level tree
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comments, err := h.commentRepository.ListByPostID(uint(postID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while fetching comments")
	}
	return c.JSON(http.StatusOK, buildCommentTree(comments))
}

// CreateComment adds a comment or a reply to a top-level comment.
// Replying to a reply is rejected: the tree is capped at two levels.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}
	actorID := getUserIDFromContext(c)

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment must not be empty")
	}

	ownerID, err := h.postRepository.GetOwnerID(uint(postID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	var parentAuthorID *uint
	if req.ParentCommentID != nil {
		parent, err := h.commentRepository.GetCommentByID(*req.ParentCommentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
		if parent.PostID != uint(postID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another post")
		}
		if parent.ParentCommentID != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Replies to replies are not supported")
		}
		parentAuthorID = &parent.UserID
	}

	comment := &models.Comment{
		PostID:          uint(postID),
		UserID:          actorID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}

	if err := h.commentRepository.CreateComment(comment, ownerID, parentAuthorID, h.fanout); err != nil {
		config.Logger.Error("creating comment failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while adding comment")
	}

	created, err := h.commentRepository.GetWithAuthor(comment.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusCreated, created)
}
