package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler handles HTTP requests related to users and follow edges
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	uploads          *storage.Disk
	fanout           *events.Fanout
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	followRepo repositories.FollowRepository,
	uploads *storage.Disk,
	fanout *events.Fanout,
) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
		uploads:          uploads,
		fanout:           fanout,
	}
}

// RegisterUserRoutes registers user-related routes. Static paths are
// registered before the :username catch-all.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth, optional echo.MiddlewareFunc) {
	g.GET("/members", h.GetMembers)
	g.GET("/profile/me", h.GetOwnProfile, auth)
	g.PUT("/profile/update", h.UpdateProfile, auth)
	g.GET("/search", h.SearchUsers, optional)
	g.GET("/:username", h.GetProfile, optional)
	g.POST("/:username/follow", h.ToggleFollow, auth)
	g.GET("/:username/followers", h.GetFollowers)
	g.GET("/:username/following", h.GetFollowing)
}

// GetMembers returns all members for the homepage, ordered by full name
func (h *UserHandler) GetMembers(c echo.Context) error {
	members, err := h.userRepository.GetMembers()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, members)
}

// GetOwnProfile returns the authenticated user's profile
func (h *UserHandler) GetOwnProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile applies a partial profile update from a multipart form.
// A password change requires the current password; a taken username is
// a conflict.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updates := map[string]interface{}{}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		user, err := h.userRepository.GetUserByID(userID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		updates["password_hash"] = string(hashed)
	}

	if file, err := c.FormFile("profilePicture"); err == nil {
		url, err := h.uploads.SaveProfilePicture(file)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedType) {
				return echo.NewHTTPError(http.StatusBadRequest, "Only image files are allowed")
			}
			config.Logger.Error("saving profile picture failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
		}
		updates["profile_picture_url"] = url
	}

	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.School != "" {
		updates["school"] = req.School
	}

	if len(updates) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	if err := h.userRepository.UpdateProfile(userID, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "That username is already taken")
		}
		config.Logger.Error("updating profile failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while updating profile")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated!"})
}

// SearchUsers matches users by username or full name. The searching
// user is excluded from their own results; an empty query returns an
// empty list.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusOK, []models.UserCompact{})
	}

	users, err := h.userRepository.SearchUsers(query, getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, users)
}

// profileResponse is a user's public profile with its counters
type profileResponse struct {
	User           publicProfile       `json:"user"`
	Stats          models.ProfileStats `json:"stats"`
	IsFollowedByMe bool                `json:"isFollowedByMe"`
}

type publicProfile struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	Bio               string `json:"bio"`
	School            string `json:"school"`
	ProfilePictureURL string `json:"profile_picture_url"`
	IsVerified        bool   `json:"is_verified"`
}

// GetProfile returns another user's profile with post/follower counts
// and, for authenticated viewers, whether they follow that user
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	postCount, err := h.postRepository.CountByUserID(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	followerCount, err := h.followRepository.CountFollowers(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	followingCount, err := h.followRepository.CountFollowing(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	isFollowedByMe := false
	if viewerID := getUserIDFromContext(c); viewerID != 0 {
		isFollowedByMe, err = h.followRepository.IsFollowing(viewerID, user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
		}
	}

	return c.JSON(http.StatusOK, profileResponse{
		User: publicProfile{
			ID:                user.ID,
			Username:          user.Username,
			FullName:          user.FullName,
			Bio:               user.Bio,
			School:            user.School,
			ProfilePictureURL: user.ProfilePictureURL,
			IsVerified:        user.IsVerified,
		},
		Stats: models.ProfileStats{
			PostCount:      postCount,
			FollowerCount:  followerCount,
			FollowingCount: followingCount,
		},
		IsFollowedByMe: isFollowedByMe,
	})
}

// ToggleFollow follows or unfollows the named user. Self-follow is a
// validation error; a duplicate-key race is a conflict.
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	followerID := getUserIDFromContext(c)

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User to follow not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if followerID == target.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "You cannot follow yourself")
	}

	following, err := h.followRepository.Toggle(followerID, target.ID, h.fanout)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return echo.NewHTTPError(http.StatusConflict, "Action already performed")
		}
		config.Logger.Error("toggling follow failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	message := "Unfollowed"
	if following {
		message = "Followed"
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following, "message": message})
}

// GetFollowers returns the users following the named user
func (h *UserHandler) GetFollowers(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	followers, err := h.followRepository.ListFollowers(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, followers)
}

// GetFollowing returns the users the named user follows
func (h *UserHandler) GetFollowing(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	following, err := h.followRepository.ListFollowing(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, following)
}
