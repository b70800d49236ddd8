package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/heatchat/auth-service/internal/models"
)

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewScheduler creates a new job scheduler
func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		db:   db,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run cleanup immediately so restarts don't leave stale states around
	go s.cleanupExpiredStates()

	// Cleanup expired OAuth states every 10 minutes
	s.cron.AddFunc("*/10 * * * *", func() {
		s.cleanupExpiredStates()
	})

	s.cron.Start()
	log.Println("Job scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Job scheduler stopped")
}

// cleanupExpiredStates removes OAuth states past their expiry
func (s *Scheduler) cleanupExpiredStates() {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.AuthState{})
	if result.Error != nil {
		log.Println("Cleanup: Failed to delete expired OAuth states:", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleanup: Deleted %d expired OAuth states", result.RowsAffected)
	}
}
