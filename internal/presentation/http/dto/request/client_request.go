package request

import "github.com/sangkips/sparta-gym-api/internal/domain/enum"

// ClientRequest creates or updates a client. Omitted fields are left as is
// on update; blank optional strings clear the field.
type ClientRequest struct {
	Name   *string            `json:"name" binding:"omitempty,max=255"`
	DNI    *string            `json:"dni"`
	Phone  *string            `json:"phone" binding:"omitempty,max=50"`
	Email  *string            `json:"email" binding:"omitempty,max=255"`
	Status *enum.ClientStatus `json:"status"`
	Notes  *string            `json:"notes"`
}

// ClientFilterRequest represents client list parameters
type ClientFilterRequest struct {
	Search    string `form:"search"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	Cursor    string `form:"cursor"`
	Direction string `form:"direction"`
	Limit     int    `form:"limit"`
}
