package scheduler

import (
	"time"

	"github.com/ksaito/chocolatte-backend/internal/app/repository"
	"github.com/ksaito/chocolatte-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Carts untouched this long are considered abandoned
const cartRetention = 30 * 24 * time.Hour

// CartCleanupScheduler purges abandoned carts nightly
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
	}
}

// Start schedules the nightly cleanup at 04:00
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled cart cleanup")

		cutoff := time.Now().Add(-cartRetention)
		deleted, err := s.cartRepo.DeleteCartsInactiveSince(cutoff)
		if err != nil {
			logger.Error("Scheduled cart cleanup failed", err)
			return
		}

		logger.Info("Scheduled cart cleanup finished", map[string]interface{}{
			"deleted_carts": deleted,
			"cutoff":        cutoff,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 4:00 AM)")
	return nil
}

// Stop stops the scheduler
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...")
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped")
}
