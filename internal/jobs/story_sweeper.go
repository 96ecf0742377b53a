package jobs

import (
	"context"
	"time"

	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
)

// StorySweeper periodically deletes stories whose lifetime has elapsed
type StorySweeper struct {
	stories  repositories.StoryRepository
	interval time.Duration
}

// NewStorySweeper creates a new story sweeper
func NewStorySweeper(stories repositories.StoryRepository, interval time.Duration) *StorySweeper {
	return &StorySweeper{stories: stories, interval: interval}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. A failed sweep is logged and does not stop the loop.
func (s *StorySweeper) Run(ctx context.Context) {
	config.Logger.Info("story sweeper started", zap.Duration("interval", s.interval))

	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-ctx.Done():
			config.Logger.Info("story sweeper stopped")
			return
		}
	}
}

func (s *StorySweeper) sweep() {
	removed, err := s.stories.DeleteExpired(time.Now())
	if err != nil {
		config.Logger.Error("story sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		config.Logger.Info("expired stories removed", zap.Int64("count", removed))
	}
}
