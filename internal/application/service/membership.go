package service

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/sparta-gym-api/internal/domain/entity"
	"github.com/sangkips/sparta-gym-api/internal/domain/enum"
)

// Membership is the computed access window of a client
type Membership struct {
	ClientID      uuid.UUID         `json:"client_id"`
	Type          *enum.PaymentType `json:"type"`
	StartedAt     *time.Time        `json:"started_at"`
	ExpiresAt     *time.Time        `json:"expires_at"`
	DaysRemaining int               `json:"days_remaining"`
	Active        bool              `json:"active"`
	LastPaymentID *uuid.UUID        `json:"last_payment_id,omitempty"`
}

// ComputeMembership walks membership payments in paid_at order. Each payment
// starts at max(paid_at, current expiry) so early renewals accumulate.
// Product payments are ignored.
func ComputeMembership(clientID uuid.UUID, payments []entity.Payment, now time.Time) *Membership {
	m := &Membership{ClientID: clientID}

	payments = append([]entity.Payment(nil), payments...)
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].PaidAt.Before(payments[j].PaidAt)
	})

	var expiry time.Time
	for i := range payments {
		p := payments[i]
		if !p.Type.IsMembership() {
			continue
		}
		start := p.PaidAt
		if expiry.After(start) {
			start = expiry
		}
		expiry = start.AddDate(0, 0, p.Type.DurationDays())

		t := p.Type
		id := p.ID
		startCopy := start.UTC()
		m.Type = &t
		m.StartedAt = &startCopy
		m.LastPaymentID = &id
	}

	if m.Type == nil {
		return m
	}

	exp := expiry.UTC()
	m.ExpiresAt = &exp
	m.DaysRemaining = daysRemaining(exp, now)
	m.Active = exp.After(now)
	return m
}

// daysRemaining is ceil((expiry - now) / 24h)
func daysRemaining(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// ExpiringSoon reports whether a monthly or quarterly membership is within
// the reminder window. Daily passes never qualify.
func (m *Membership) ExpiringSoon(reminderDays int) bool {
	if m.Type == nil || !m.Type.HasPeriod() || !m.Active {
		return false
	}
	return m.DaysRemaining >= 0 && m.DaysRemaining <= reminderDays
}
