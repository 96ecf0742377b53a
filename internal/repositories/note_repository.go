package repositories

import (
	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// NoteRepository defines the interface for note data operations
type NoteRepository interface {
	CreateNote(note *models.Note) error
	ListByUsername(username string) ([]models.Note, error)
	DeleteOwned(noteID uint, userID uint) error
}

// PostgresNoteRepository implements NoteRepository on GORM
type PostgresNoteRepository struct {
	db *gorm.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository
func NewPostgresNoteRepository(db *gorm.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db}
}

// CreateNote creates a new note
func (r *PostgresNoteRepository) CreateNote(note *models.Note) error {
	return r.db.Create(note).Error
}

// ListByUsername returns a user's notes, newest first
func (r *PostgresNoteRepository) ListByUsername(username string) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Table("notes").
		Select("notes.id, notes.user_id, notes.content, notes.created_at").
		Joins("JOIN users ON notes.user_id = users.id").
		Where("users.username = ?", username).
		Order("notes.created_at DESC").
		Find(&notes).Error
	return notes, err
}

// DeleteOwned deletes a note only when it belongs to userID. A note
// that does not exist or belongs to someone else reports ErrNotFound,
// without revealing which.
func (r *PostgresNoteRepository) DeleteOwned(noteID uint, userID uint) error {
	res := r.db.Where("id = ? AND user_id = ?", noteID, userID).Delete(&models.Note{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
