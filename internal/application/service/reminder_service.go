package service

import (
	"context"
	"log"
	"time"

	"github.com/sangkips/sparta-gym-api/pkg/apperror"
	"github.com/sangkips/sparta-gym-api/pkg/email"
)

// ReminderMailer delivers membership expiry reminders
type ReminderMailer interface {
	SendMembershipReminder(ctx context.Context, data email.ReminderData) error
	Enabled() bool
}

// ReminderService emails clients whose membership is about to expire
type ReminderService struct {
	payments *PaymentService
	settings *SettingsService
	mailer   ReminderMailer
	clock    Clock
}

// NewReminderService creates a new reminder service
func NewReminderService(payments *PaymentService, settings *SettingsService, mailer ReminderMailer, clock Clock) *ReminderService {
	return &ReminderService{
		payments: payments,
		settings: settings,
		mailer:   mailer,
		clock:    clock,
	}
}

// NotifyResult counts the outcome of one reminder run
type NotifyResult struct {
	Expiring int `json:"expiring"`
	Sent     int `json:"sent"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Notify emails every expiring client that has an email address
func (s *ReminderService) Notify(ctx context.Context) (*NotifyResult, error) {
	if !s.mailer.Enabled() {
		return nil, apperror.NewAppError(apperror.ErrServiceUnavailable.Code, "Email provider is not configured")
	}

	expiring, err := s.payments.ListExpiring(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	result := &NotifyResult{Expiring: len(expiring)}
	loc := s.clock.location()
	for _, e := range expiring {
		if e.Client.Email == nil {
			result.Skipped++
			continue
		}
		err := s.mailer.SendMembershipReminder(ctx, email.ReminderData{
			ClientName:    e.Client.Name,
			Email:         *e.Client.Email,
			Plan:          e.Type.Label(),
			ExpiresOn:     e.ExpiresAt.In(loc).Format("02/01/2006"),
			DaysRemaining: e.DaysRemaining,
			Phone:         settings.Phone,
		})
		if err != nil {
			log.Printf("[reminder] failed to email %s: %v", *e.Client.Email, err)
			result.Failed++
			continue
		}
		result.Sent++
	}
	return result, nil
}

// Run notifies once per interval until ctx is cancelled
func (s *ReminderService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	log.Printf("[reminder] scheduler started, interval %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx)
		select {
		case <-ctx.Done():
			log.Println("[reminder] scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

func (s *ReminderService) runOnce(ctx context.Context) {
	result, err := s.Notify(ctx)
	if err != nil {
		log.Printf("[reminder] run failed: %v", err)
		return
	}
	log.Printf("[reminder] expiring=%d sent=%d skipped=%d failed=%d",
		result.Expiring, result.Sent, result.Skipped, result.Failed)
}
