package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	storyRepository repositories.StoryRepository
	userRepository  repositories.UserRepository
	uploads         *storage.Disk
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyRepo repositories.StoryRepository, userRepo repositories.UserRepository, uploads *storage.Disk) *StoryHandler {
	return &StoryHandler{
		storyRepository: storyRepo,
		userRepository:  userRepo,
		uploads:         uploads,
	}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("", h.CreateStory, auth)
	g.GET("/:username", h.GetStoriesByUsername)
	g.DELETE("/:id", h.DeleteStory, auth)
}

// CreateStory uploads one media file as a story expiring 24 hours from now
func (h *StoryHandler) CreateStory(c echo.Context) error {
	actorID := getUserIDFromContext(c)

	var req models.CreateStoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	file, err := c.FormFile("media")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Media file is required")
	}

	url, mediaType, err := h.uploads.SaveStoryMedia(file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return echo.NewHTTPError(http.StatusBadRequest, "Only image and video files are allowed")
		}
		config.Logger.Error("saving story media failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
	}

	story := &models.Story{
		UserID:        actorID,
		MediaURL:      url,
		MediaType:     mediaType,
		SongID:        req.SongID,
		SongStartTime: req.SongStartTime,
		SongEndTime:   req.SongEndTime,
		VideoStart:    req.VideoStart,
		VideoEnd:      req.VideoEnd,
	}

	if err := h.storyRepository.CreateStory(story); err != nil {
		config.Logger.Error("creating story failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while uploading story")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Story uploaded.", "storyId": story.ID})
}

// GetStoriesByUsername returns a user's unexpired stories, newest first
func (h *StoryHandler) GetStoriesByUsername(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	stories, err := h.storyRepository.ListActiveByUserID(user.ID, time.Now())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, stories)
}

// DeleteStory removes a story; only the owner may delete
func (h *StoryHandler) DeleteStory(c echo.Context) error {
	storyID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid story ID")
	}

	if err := h.storyRepository.DeleteStory(uint(storyID), getUserIDFromContext(c)); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		case errors.Is(err, repositories.ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, "You cannot delete someone else's story")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Story deleted."})
}
