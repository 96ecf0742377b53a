package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/middleware"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"gorm.io/gorm"
)

type uploadPart struct {
	name        string
	contentType string
	content     string
}

// newUploadContext builds an authenticated multipart request with form
// fields and "files" parts carrying explicit content types.
func newUploadContext(t *testing.T, e *echo.Echo, fields map[string]string, parts []uploadPart, user *models.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("writing field %s: %v", key, err)
		}
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+p.name+`"`)
		h.Set("Content-Type", p.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("creating part: %v", err)
		}
		if _, err := part.Write([]byte(p.content)); err != nil {
			t.Fatalf("writing part: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserKey, &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})
	return c, rec
}

func setupPostHandler(t *testing.T) (*gorm.DB, *PostHandler, *models.User) {
	t.Helper()
	db := setupTestDB(t)
	uploads, err := storage.NewDisk(t.TempDir())
	if err != nil {
		t.Fatalf("NewDisk: %v", err)
	}
	h := NewPostHandler(
		repositories.NewPostgresPostRepository(db),
		repositories.NewPostgresUserRepository(db),
		repositories.NewPostgresLikeRepository(db),
		uploads,
		events.NewFanout(),
	)
	owner := createTestUser(t, db, "owner", "pw")
	return db, h, owner
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return count
}

func TestCreatePostRequiresMedia(t *testing.T) {
	db, h, owner := setupPostHandler(t)
	e := echo.New()

	c, _ := newUploadContext(t, e, map[string]string{"caption": "no files"}, nil, owner)
	if err := h.CreatePost(c); httpStatus(t, err) != http.StatusBadRequest {
		t.Errorf("zero files: %v, want 400", err)
	}
	if count := countRows(t, db, &models.Post{}); count != 0 {
		t.Errorf("posts persisted = %d, want 0", count)
	}
	if count := countRows(t, db, &models.PostMedia{}); count != 0 {
		t.Errorf("media persisted = %d, want 0", count)
	}
}

func TestCreatePostRejectsTooManyFiles(t *testing.T) {
	db, h, owner := setupPostHandler(t)
	e := echo.New()

	parts := make([]uploadPart, maxPostFiles+1)
	for i := range parts {
		parts[i] = uploadPart{name: "p.jpg", contentType: "image/jpeg", content: "x"}
	}
	c, _ := newUploadContext(t, e, map[string]string{"caption": "too many"}, parts, owner)
	if err := h.CreatePost(c); httpStatus(t, err) != http.StatusBadRequest {
		t.Errorf("%d files: %v, want 400", len(parts), err)
	}
	if count := countRows(t, db, &models.Post{}); count != 0 {
		t.Errorf("posts persisted = %d, want 0", count)
	}
}

func TestCreatePostRejectsUnsupportedMediaType(t *testing.T) {
	db, h, owner := setupPostHandler(t)
	e := echo.New()

	parts := []uploadPart{{name: "doc.pdf", contentType: "application/pdf", content: "pdf"}}
	c, _ := newUploadContext(t, e, map[string]string{"caption": "bad type"}, parts, owner)
	if err := h.CreatePost(c); httpStatus(t, err) != http.StatusBadRequest {
		t.Errorf("pdf upload: %v, want 400", err)
	}
	if count := countRows(t, db, &models.Post{}); count != 0 {
		t.Errorf("posts persisted = %d, want 0", count)
	}
}

func TestCreatePostHappyPath(t *testing.T) {
	db, h, owner := setupPostHandler(t)
	e := echo.New()

	fields := map[string]string{"caption": "two files", "type": models.PostTypeShared}
	parts := []uploadPart{
		{name: "a.jpg", contentType: "image/jpeg", content: "jpg"},
		{name: "b.mp4", contentType: "video/mp4", content: "mp4"},
	}
	c, rec := newUploadContext(t, e, fields, parts, owner)
	if err := h.CreatePost(c); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var body struct {
		PostID uint `json:"postId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.PostID == 0 {
		t.Fatal("response carries no postId")
	}

	var post models.Post
	if err := db.First(&post, body.PostID).Error; err != nil {
		t.Fatalf("loading post: %v", err)
	}
	if post.Type != models.PostTypeShared || post.Caption != "two files" {
		t.Errorf("post = %+v", post)
	}

	var media []models.PostMedia
	if err := db.Where("post_id = ?", post.ID).Order("display_order ASC").Find(&media).Error; err != nil {
		t.Fatalf("loading media: %v", err)
	}
	if len(media) != 2 || media[0].MediaType != "image" || media[1].MediaType != "video" {
		t.Errorf("media = %+v, want image then video", media)
	}
}

func TestCreatePostDefaultsToPersonal(t *testing.T) {
	db, h, owner := setupPostHandler(t)
	e := echo.New()

	parts := []uploadPart{{name: "a.jpg", contentType: "image/jpeg", content: "jpg"}}
	c, _ := newUploadContext(t, e, map[string]string{"caption": "untyped"}, parts, owner)
	if err := h.CreatePost(c); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	var post models.Post
	if err := db.Where("caption = ?", "untyped").First(&post).Error; err != nil {
		t.Fatalf("loading post: %v", err)
	}
	if post.Type != models.PostTypePersonal {
		t.Errorf("type = %q, want %q", post.Type, models.PostTypePersonal)
	}
}
