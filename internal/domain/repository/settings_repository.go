package repository

import (
	"context"

	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the gym settings row
type SettingsRepository interface {
	// Get returns the settings row, or nil when none exists yet
	Get(ctx context.Context) (*entity.Settings, error)
	Create(ctx context.Context, settings *entity.Settings) error
	Update(ctx context.Context, settings *entity.Settings) error
}
