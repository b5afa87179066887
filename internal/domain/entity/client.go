package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Client represents a gym member
type Client struct {
	ID           uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name         string            `gorm:"size:255;not null;index" json:"name"`
	DNI          *string           `gorm:"column:dni;size:8;uniqueIndex:idx_clients_dni_live,where:deleted_at IS NULL" json:"dni,omitempty"`
	Phone        *string           `gorm:"size:50" json:"phone,omitempty"`
	Email        *string           `gorm:"size:255" json:"email,omitempty"`
	Status       enum.ClientStatus `gorm:"not null;default:0;index" json:"status"`
	Notes        *string           `gorm:"type:text" json:"notes,omitempty"`
	RegisteredAt time.Time         `gorm:"not null;index" json:"registered_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	DeletedAt    gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Payments []Payment `gorm:"foreignKey:ClientID" json:"-"`
	Sales    []Sale    `gorm:"foreignKey:ClientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new client
func (c *Client) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = time.Now().UTC()
	}
	return nil
}

// TableName returns the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// IsActive reports whether the client is marked active
func (c *Client) IsActive() bool {
	return c.Status == enum.ClientStatusActive
}
