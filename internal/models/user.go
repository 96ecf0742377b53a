package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles. There is no self-serve registration; accounts are created
// by the seed process or an admin.
const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"size:50;uniqueIndex"`
	FullName          string    `json:"full_name"`
	Email             string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role" gorm:"size:10;default:guest"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	Bio               string    `json:"bio"`
	School            string    `json:"school"`
	IsVerified        bool      `json:"is_verified" gorm:"default:false"`
	CreatedAt         time.Time `json:"created_at"`
}

// UserCompact is the public subset of a user embedded in lists and
// enriched responses.
type UserCompact struct {
	ID                uint   `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"full_name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	IsVerified        bool   `json:"is_verified"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:                u.ID,
		Username:          u.Username,
		FullName:          u.FullName,
		ProfilePictureURL: u.ProfilePictureURL,
		IsVerified:        u.IsVerified,
	}
}

// LoginRequest defines the request body for password login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the multipart form fields of a profile
// update. All fields are optional; the picture file travels separately.
type UpdateProfileRequest struct {
	Username        string `form:"username" validate:"omitempty,min=3,max=50"`
	FullName        string `form:"fullName" validate:"omitempty,max=100"`
	Bio             string `form:"bio" validate:"omitempty,max=500"`
	School          string `form:"school" validate:"omitempty,max=100"`
	CurrentPassword string `form:"currentPassword"`
	NewPassword     string `form:"newPassword" validate:"omitempty,min=6"`
}

// ProfileStats are the counters shown on a profile page.
type ProfileStats struct {
	PostCount      int64 `json:"postCount"`
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
