package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/pklporto/backend/internal/models"
)

func TestCreateStoryStampsExpiry(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresStoryRepository(db)
	owner := createTestUser(t, db, "owner")

	story := &models.Story{UserID: owner.ID, MediaURL: "/uploads/stories/a.jpg", MediaType: "image"}
	before := time.Now()
	if err := repo.CreateStory(story); err != nil {
		t.Fatalf("CreateStory: %v", err)
	}

	want := before.Add(models.StoryTTL)
	if story.ExpiresAt.Before(want.Add(-time.Minute)) || story.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about %v", story.ExpiresAt, want)
	}
}

func TestListActiveFiltersExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresStoryRepository(db)
	owner := createTestUser(t, db, "owner")

	active := &models.Story{UserID: owner.ID, MediaURL: "/uploads/stories/a.jpg", MediaType: "image"}
	if err := repo.CreateStory(active); err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	expired := &models.Story{
		UserID:    owner.ID,
		MediaURL:  "/uploads/stories/old.jpg",
		MediaType: "image",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(expired).Error; err != nil {
		t.Fatalf("inserting expired story: %v", err)
	}

	got, err := repo.ListActiveByUserID(owner.ID, time.Now())
	if err != nil {
		t.Fatalf("ListActiveByUserID: %v", err)
	}
	if len(got) != 1 || got[0].ID != active.ID {
		t.Errorf("active stories = %+v, want only the fresh one", got)
	}
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresStoryRepository(db)
	owner := createTestUser(t, db, "owner")

	fresh := &models.Story{UserID: owner.ID, MediaURL: "/uploads/stories/a.jpg", MediaType: "image"}
	if err := repo.CreateStory(fresh); err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	for i := 0; i < 2; i++ {
		expired := &models.Story{
			UserID:    owner.ID,
			MediaURL:  "/uploads/stories/old.jpg",
			MediaType: "image",
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		if err := db.Create(expired).Error; err != nil {
			t.Fatalf("inserting expired story: %v", err)
		}
	}

	removed, err := repo.DeleteExpired(time.Now())
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	var remaining int64
	db.Model(&models.Story{}).Count(&remaining)
	if remaining != 1 {
		t.Errorf("stories left = %d, want 1", remaining)
	}
}

func TestDeleteStoryOwnerOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresStoryRepository(db)
	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")

	story := &models.Story{UserID: owner.ID, MediaURL: "/uploads/stories/a.jpg", MediaType: "image"}
	if err := repo.CreateStory(story); err != nil {
		t.Fatalf("CreateStory: %v", err)
	}

	if err := repo.DeleteStory(story.ID, alice.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("DeleteStory by non-owner = %v, want ErrNotOwner", err)
	}
	if err := repo.DeleteStory(story.ID, owner.ID); err != nil {
		t.Fatalf("DeleteStory: %v", err)
	}
	if err := repo.DeleteStory(story.ID, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteStory of missing story = %v, want ErrNotFound", err)
	}
}
