package router

import (
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/events"
	"github.com/pklporto/backend/internal/handlers"
	"github.com/pklporto/backend/internal/middleware"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, uploads *storage.Disk, cfg *config.Config) error {
	err := db.AutoMigrate(
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
		return err
	}
	config.Logger.Info("Auto-migrations completed for all models")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"message": "Hello, World!"})
	})
	e.Static("/uploads", uploads.Root())

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	noteRepo := repositories.NewPostgresNoteRepository(db)
	storyRepo := repositories.NewPostgresStoryRepository(db)
	songRepo := repositories.NewPostgresSongRepository(db)

	fanout := events.NewFanout()

	auth := middleware.JWTAuth(cfg.JWTSecret)
	optional := middleware.OptionalJWTAuth(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly()

	// Auth routes
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	config.Logger.Info("Auth routes configured")

	// Post routes (comments hang off the same group)
	postGroup := e.Group("/api/posts")
	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, uploads, fanout)
	postHandler.RegisterPostRoutes(postGroup, auth, optional)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, fanout)
	commentHandler.RegisterCommentRoutes(postGroup, auth)
	config.Logger.Info("Post and comment routes configured")

	// User routes
	userGroup := e.Group("/api/users")
	userHandler := handlers.NewUserHandler(userRepo, postRepo, followRepo, uploads, fanout)
	userHandler.RegisterUserRoutes(userGroup, auth, optional)
	config.Logger.Info("User routes configured")

	// Story routes
	storyGroup := e.Group("/api/stories")
	storyHandler := handlers.NewStoryHandler(storyRepo, userRepo, uploads)
	storyHandler.RegisterStoryRoutes(storyGroup, auth)
	config.Logger.Info("Story routes configured")

	// Notification routes
	notificationGroup := e.Group("/api/notifications")
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(notificationGroup, auth)
	config.Logger.Info("Notification routes configured")

	// Note routes
	noteGroup := e.Group("/api/notes")
	noteHandler := handlers.NewNoteHandler(noteRepo)
	noteHandler.RegisterNoteRoutes(noteGroup, auth)
	config.Logger.Info("Note routes configured")

	// Song routes
	songGroup := e.Group("/api/songs")
	songHandler := handlers.NewSongHandler(songRepo, uploads)
	songHandler.RegisterSongRoutes(songGroup, auth, adminOnly)
	config.Logger.Info("Song routes configured")

	config.Logger.Info("All routes configured")
	return nil
}
