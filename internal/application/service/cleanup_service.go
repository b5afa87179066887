package service

import (
	"context"
	"log"
	"time"

	"github.com/sangkips/sparta-gym-api/internal/domain/repository"
)

// CleanupService purges expired idempotency keys and password reset tokens
type CleanupService struct {
	idempotencyRepo   repository.IdempotencyRepository
	passwordResetRepo repository.PasswordResetTokenRepository
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(idempotencyRepo repository.IdempotencyRepository, passwordResetRepo repository.PasswordResetTokenRepository) *CleanupService {
	return &CleanupService{idempotencyRepo: idempotencyRepo, passwordResetRepo: passwordResetRepo}
}

// RunOnce deletes expired records and returns how many idempotency keys went
func (s *CleanupService) RunOnce(ctx context.Context) (int64, error) {
	keys, err := s.idempotencyRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.passwordResetRepo.DeleteExpired(ctx); err != nil {
		return keys, err
	}
	return keys, nil
}

// Run purges once per interval until ctx is cancelled
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	log.Printf("[cleanup] started, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		keys, err := s.RunOnce(ctx)
		if err != nil {
			log.Printf("[cleanup] failed: %v", err)
		} else if keys > 0 {
			log.Printf("[cleanup] removed %d expired idempotency keys", keys)
		}

		select {
		case <-ctx.Done():
			log.Println("[cleanup] stopped")
			return
		case <-ticker.C:
		}
	}
}
