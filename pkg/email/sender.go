package email

import (
	"context"
	"fmt"
	"log"
	"net/mail"
)

// Config holds outbound mail settings
type Config struct {
	Provider     string // smtp, resend or none
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ResendAPIKey string
	FromName     string
	FromEmail    string
	FrontendURL  string
	GymName      string
}

// From renders the RFC 5322 sender
func (c Config) From() string {
	return (&mail.Address{Name: c.FromName, Address: c.FromEmail}).String()
}

// Message is one outbound email
type Message struct {
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// Sender delivers a Message through some provider
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Enabled() bool
}

// NewSender builds the Sender for cfg.Provider
func NewSender(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("email: SMTP_HOST is required for smtp provider")
		}
		return NewSMTPSender(cfg), nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("email: RESEND_API_KEY is required for resend provider")
		}
		return NewResendSender(cfg.ResendAPIKey, cfg.From()), nil
	case "none", "":
		return NullSender{}, nil
	default:
		return nil, fmt.Errorf("email: unknown provider %q (use smtp, resend, or none)", cfg.Provider)
	}
}

// NullSender drops every message. Used when no provider is configured.
type NullSender struct{}

func (NullSender) Send(_ context.Context, msg Message) error {
	log.Printf("email: provider disabled, dropping %q to %v", msg.Subject, msg.To)
	return nil
}

func (NullSender) Enabled() bool { return false }
