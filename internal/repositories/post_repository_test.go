package repositories

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/models"
)

func TestExtractMentionHandles(t *testing.T) {
	cases := []struct {
		caption string
		want    []string
	}{
		{"hello world", nil},
		{"thanks @alice!", []string{"alice"}},
		{"@alice @bob @alice", []string{"alice", "bob"}},
		{"mail me at me@example.com", []string{"example"}},
		{"@bob, meet @alice", []string{"bob", "alice"}},
	}
	for _, tc := range cases {
		got := extractMentionHandles(tc.caption)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("extractMentionHandles(%q) = %v, want %v", tc.caption, got, tc.want)
		}
	}
}

func TestCreatePostAssignsSlugAndOrdersMedia(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	owner := createTestUser(t, db, "owner")

	post := &models.Post{UserID: owner.ID, Caption: "three files", Type: models.PostTypeShared}
	media := []models.PostMedia{
		{MediaURL: "/uploads/1.jpg", MediaType: "image"},
		{MediaURL: "/uploads/2.mp4", MediaType: "video"},
		{MediaURL: "/uploads/3.jpg", MediaType: "image"},
	}
	if err := repo.CreatePost(post, media, events.NewFanout()); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if len(post.Slug) != slugLength {
		t.Errorf("slug length = %d, want %d", len(post.Slug), slugLength)
	}

	detail, err := repo.GetDetailBySlug(post.Slug, 0)
	if err != nil {
		t.Fatalf("GetDetailBySlug: %v", err)
	}
	if len(detail.Media) != 3 {
		t.Fatalf("media count = %d, want 3", len(detail.Media))
	}
	if detail.Media[0].URL != "/uploads/1.jpg" || detail.Media[2].URL != "/uploads/3.jpg" {
		t.Errorf("media not in upload order: %+v", detail.Media)
	}
	if detail.Media[1].Type != "video" {
		t.Errorf("media[1].Type = %q, want video", detail.Media[1].Type)
	}
}

func TestCreatePostMentionFanout(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")

	// owner mentions themselves, alice, and a handle nobody owns
	post := &models.Post{UserID: owner.ID, Caption: "with @owner @alice and @nobody"}
	media := []models.PostMedia{{MediaURL: "/uploads/a.jpg", MediaType: "image"}}
	if err := repo.CreatePost(post, media, events.NewFanout()); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	var mentionCount int64
	db.Model(&models.Mention{}).Where("post_id = ?", post.ID).Count(&mentionCount)
	if mentionCount != 2 {
		t.Errorf("mention rows = %d, want 2 (self kept, unknown dropped)", mentionCount)
	}

	got := notificationsFor(t, db, alice.ID)
	if len(got) != 1 || got[0].Type != models.NotificationMention {
		t.Fatalf("alice notifications = %+v, want one mention", got)
	}
	if got[0].TargetID == nil || *got[0].TargetID != post.ID {
		t.Errorf("mention notification target = %v, want %d", got[0].TargetID, post.ID)
	}
	if n := notificationsFor(t, db, owner.ID); len(n) != 0 {
		t.Errorf("self-mention produced %d notifications, want 0", len(n))
	}

	tagged, err := repo.ListTagged(alice.ID, 0)
	if err != nil {
		t.Fatalf("ListTagged: %v", err)
	}
	if len(tagged) != 1 || tagged[0].ID != post.ID {
		t.Errorf("ListTagged = %+v, want the mentioning post", tagged)
	}
}

func TestGetDetailLikeEnrichment(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	likeRepo := NewPostgresLikeRepository(db)
	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")
	post := createTestPost(t, db, repo, owner, "likeable")

	if _, _, err := likeRepo.Toggle(post.ID, alice.ID, owner.ID, events.NewFanout()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	asAlice, err := repo.GetDetailByID(post.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetDetailByID: %v", err)
	}
	if asAlice.LikeCount != 1 || !asAlice.IsLiked {
		t.Errorf("viewer alice: likeCount=%d isLiked=%v, want 1/true", asAlice.LikeCount, asAlice.IsLiked)
	}
	if asAlice.FirstLikerUsername == nil || *asAlice.FirstLikerUsername != "alice" {
		t.Errorf("firstLikerUsername = %v, want alice", asAlice.FirstLikerUsername)
	}
	if asAlice.AuthorUsername != "owner" {
		t.Errorf("authorUsername = %q, want owner", asAlice.AuthorUsername)
	}

	asGuest, err := repo.GetDetailByID(post.ID, 0)
	if err != nil {
		t.Fatalf("GetDetailByID as guest: %v", err)
	}
	if asGuest.IsLiked {
		t.Error("guest viewer must always see isLiked=false")
	}
	if asGuest.LikeCount != 1 {
		t.Errorf("guest likeCount = %d, want 1", asGuest.LikeCount)
	}
}

func TestListShared(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	owner := createTestUser(t, db, "owner")

	personal := &models.Post{UserID: owner.ID, Caption: "mine", Type: models.PostTypePersonal}
	shared := &models.Post{UserID: owner.ID, Caption: "ours", Type: models.PostTypeShared}
	for _, p := range []*models.Post{personal, shared} {
		m := []models.PostMedia{{MediaURL: "/uploads/x.jpg", MediaType: "image"}}
		if err := repo.CreatePost(p, m, events.NewFanout()); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	feed, err := repo.ListShared(0)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(feed) != 1 || feed[0].ID != shared.ID {
		t.Errorf("shared feed = %+v, want only the shared post", feed)
	}

	own, err := repo.ListByUserID(owner.ID, 0)
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(own) != 2 {
		t.Errorf("profile feed has %d posts, want 2", len(own))
	}
}

func TestDeletePostCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	commentRepo := NewPostgresCommentRepository(db)
	likeRepo := NewPostgresLikeRepository(db)
	owner := createTestUser(t, db, "owner")
	alice := createTestUser(t, db, "alice")

	post := &models.Post{UserID: owner.ID, Caption: "doomed @alice"}
	media := []models.PostMedia{{MediaURL: "/uploads/a.jpg", MediaType: "image"}}
	if err := repo.CreatePost(post, media, events.NewFanout()); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if _, _, err := likeRepo.Toggle(post.ID, alice.ID, owner.ID, events.NewFanout()); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	root := &models.Comment{PostID: post.ID, UserID: alice.ID, Content: "root"}
	if err := commentRepo.CreateComment(root, owner.ID, nil, events.NewFanout()); err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	reply := &models.Comment{PostID: post.ID, UserID: owner.ID, Content: "reply", ParentCommentID: &root.ID}
	if err := commentRepo.CreateComment(reply, owner.ID, &alice.ID, events.NewFanout()); err != nil {
		t.Fatalf("CreateComment reply: %v", err)
	}

	if err := repo.DeletePost(post.ID, alice.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("DeletePost by non-owner = %v, want ErrNotOwner", err)
	}
	if err := repo.DeletePost(post.ID, owner.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	for table, model := range map[string]interface{}{
		"likes":      &models.Like{},
		"mentions":   &models.Mention{},
		"comments":   &models.Comment{},
		"post_media": &models.PostMedia{},
	} {
		var count int64
		db.Model(model).Where("post_id = ?", post.ID).Count(&count)
		if count != 0 {
			t.Errorf("%s rows left after delete: %d", table, count)
		}
	}
	if _, err := repo.GetDetailByID(post.ID, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDetailByID after delete = %v, want ErrNotFound", err)
	}

	if err := repo.DeletePost(9999, owner.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePost of missing post = %v, want ErrNotFound", err)
	}
}

func TestCountByUserID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	owner := createTestUser(t, db, "owner")
	createTestPost(t, db, repo, owner, "one")
	createTestPost(t, db, repo, owner, "two")

	count, err := repo.CountByUserID(owner.ID)
	if err != nil {
		t.Fatalf("CountByUserID: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
