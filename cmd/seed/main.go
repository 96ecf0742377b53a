package main

import (
	"errors"
	"log"

	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// seedUser is one initial account. There is no self-serve registration,
// so running this command is how accounts come to exist.
type seedUser struct {
	Username string
	FullName string
	Email    string
	Role     string
	Password string
}

var initialUsers = []seedUser{
	{Username: "pyo", FullName: "Barvio Nadhif Aikonara", Email: "barvio@gmail.com", Role: models.RoleGuest, Password: "password"},
	{Username: "fais", FullName: "Rizki Fais Ramadhan", Email: "fais@gmail.com", Role: models.RoleGuest, Password: "password"},
}

// seedUsers hashes each password and inserts the accounts. Usernames
// that already exist are skipped, so the command can be re-run safely.
func seedUsers(repo repositories.UserRepository, users []seedUser) (int, error) {
	created := 0
	for _, su := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, err
		}
		user := &models.User{
			Username:     su.Username,
			FullName:     su.FullName,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
		}
		if err := repo.CreateUser(user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				config.Logger.Info("user already exists, skipping", zap.String("username", su.Username))
				continue
			}
			return created, err
		}
		created++
		config.Logger.Info("user created", zap.String("username", su.Username))
	}
	return created, nil
}

func main() {
	cfg := config.Load()
	config.InitLogger(cfg.Env)
	defer config.Logger.Sync()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(&models.User{}); err != nil {
		config.Logger.Fatal("Failed to migrate users table", zap.Error(err))
	}

	created, err := seedUsers(repositories.NewPostgresUserRepository(db), initialUsers)
	if err != nil {
		config.Logger.Fatal("Seeding failed", zap.Error(err))
	}
	config.Logger.Info("Seed complete", zap.Int("created", created))
}
