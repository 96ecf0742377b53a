package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/jobs"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/router"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()
	config.InitLogger(cfg.Env)
	defer config.Logger.Sync()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Upload directory for post media, stories, avatars and songs
	uploads, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		config.Logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db, uploads, cfg); err != nil {
		config.Logger.Fatal("Failed to set up routes", zap.Error(err))
	}

	// Expired stories are swept in the background every hour
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := jobs.NewStorySweeper(repositories.NewPostgresStoryRepository(db), time.Hour)
	go sweeper.Run(ctx)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
