package repositories

import (
	"errors"

	"github.com/pklporto/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetMembers() ([]models.UserCompact, error)
	SearchUsers(query string, excludeID uint) ([]models.UserCompact, error)
	UpdateProfile(id uint, updates map[string]interface{}) error
}

// PostgresUserRepository implements UserRepository on GORM
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user (seed/admin only; no self-serve signup)
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetMembers returns all members ordered by full name
func (r *PostgresUserRepository) GetMembers() ([]models.UserCompact, error) {
	var members []models.UserCompact
	err := r.db.Model(&models.User{}).
		Where("role IN ?", []string{models.RoleGuest, models.RoleAdmin}).
		Order("full_name ASC").
		Find(&members).Error
	return members, err
}

// SearchUsers matches username or full name against the query. When
// excludeID is non-zero the searching user is hidden from the results.
func (r *PostgresUserRepository) SearchUsers(query string, excludeID uint) ([]models.UserCompact, error) {
	pattern := "%" + query + "%"
	q := r.db.Model(&models.User{}).
		Where("username LIKE ? OR full_name LIKE ?", pattern, pattern)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	var users []models.UserCompact
	err := q.Find(&users).Error
	return users, err
}

// UpdateProfile applies a partial update to a user row
func (r *PostgresUserRepository) UpdateProfile(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}
