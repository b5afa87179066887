package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRunOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC()

	require.NoError(t, f.db.Create(&[]entity.IdempotencyKey{
		{Key: "old-1", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201, ExpiresAt: now.Add(-time.Hour)},
		{Key: "old-2", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201, ExpiresAt: now.Add(-time.Minute)},
		{Key: "fresh", UserID: userID, Endpoint: "POST /api/v1/sales", ResponseCode: 201, ExpiresAt: now.Add(time.Hour)},
	}).Error)
	require.NoError(t, f.db.Create(&[]entity.PasswordResetToken{
		{Email: "a@sparta.pe", Token: "expired", ExpiresAt: now.Add(-time.Hour)},
		{Email: "b@sparta.pe", Token: "valid", ExpiresAt: now.Add(time.Hour)},
	}).Error)

	removed, err := f.cleanup.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	var keys, tokens int64
	require.NoError(t, f.db.Model(&entity.IdempotencyKey{}).Count(&keys).Error)
	require.NoError(t, f.db.Model(&entity.PasswordResetToken{}).Count(&tokens).Error)
	assert.Equal(t, int64(1), keys)
	assert.Equal(t, int64(1), tokens)

	removed, err = f.cleanup.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestCleanupRun_StopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.cleanup.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
