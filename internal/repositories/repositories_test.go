package repositories

import (
	"fmt"
	"testing"

	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database migrated with the full schema.
// TranslateError mirrors the production connection so duplicate-key
// behavior matches.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.PostMedia{},
		&models.Comment{},
		&models.Like{},
		&models.Follower{},
		&models.Mention{},
		&models.Notification{},
		&models.Note{},
		&models.Story{},
		&models.Song{},
	)
	if err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		FullName: "Test " + username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, repo PostRepository, owner *models.User, caption string) *models.Post {
	t.Helper()
	post := &models.Post{UserID: owner.ID, Caption: caption, Type: models.PostTypePersonal}
	media := []models.PostMedia{{MediaURL: "/uploads/a.jpg", MediaType: "image"}}
	if err := repo.CreatePost(post, media, events.NewFanout()); err != nil {
		t.Fatalf("creating post: %v", err)
	}
	return post
}

func notificationsFor(t *testing.T, db *gorm.DB, userID uint) []models.Notification {
	t.Helper()
	var rows []models.Notification
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("loading notifications: %v", err)
	}
	return rows
}
