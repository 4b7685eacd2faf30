package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"ecothreads/internal/adapters/persistence/repositories"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron      *cron.Cron
	tokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(tokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		cron:      cron.New(),
		tokenRepo: tokenRepo,
	}
}

// Start registers and starts the scheduled jobs
func (s *CronService) Start() error {
	// Purge expired refresh tokens nightly
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Cron jobs started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (s *CronService) purgeExpiredTokens() {
	if err := s.tokenRepo.DeleteExpired(context.Background()); err != nil {
		log.Printf("Failed to purge expired refresh tokens: %v", err)
		return
	}
	log.Println("Expired refresh tokens purged")
}
