package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Mailer renders the gym's transactional emails and hands them to a Sender
type Mailer struct {
	sender Sender
	cfg    Config
	md     goldmark.Markdown
	layout *htmltemplate.Template
	reset  *htmltemplate.Template
	remind *texttemplate.Template
}

// ReminderData feeds the membership expiry reminder
type ReminderData struct {
	ClientName    string
	Email         string
	Plan          string
	ExpiresOn     string
	DaysRemaining int
	Phone         string
}

func NewMailer(sender Sender, cfg Config) *Mailer {
	if cfg.GymName == "" {
		cfg.GymName = "Sparta Gym"
	}
	return &Mailer{
		sender: sender,
		cfg:    cfg,
		// Raw HTML in client-supplied names is escaped (WithUnsafe is not set).
		md:     goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps())),
		layout: htmltemplate.Must(htmltemplate.New("layout").Parse(layoutTemplate)),
		reset:  htmltemplate.Must(htmltemplate.New("password_reset").Parse(passwordResetTemplate)),
		remind: texttemplate.Must(texttemplate.New("reminder").Parse(reminderMarkdown)),
	}
}

// Enabled reports whether a real provider is configured
func (m *Mailer) Enabled() bool {
	return m.sender.Enabled()
}

// SendPasswordReset emails the reset link for token
func (m *Mailer) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		strings.TrimRight(m.cfg.FrontendURL, "/"),
		url.QueryEscape(token),
		url.QueryEscape(toEmail),
	)

	var body bytes.Buffer
	err := m.reset.Execute(&body, struct {
		Email    string
		ResetURL string
	}{toEmail, resetURL})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	html, err := m.wrap(htmltemplate.HTML(body.String()))
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      []string{toEmail},
		Subject: "Restablece tu contraseña - " + m.cfg.GymName,
		HTML:    html,
	})
}

// SendMembershipReminder tells a client their membership is about to expire
func (m *Mailer) SendMembershipReminder(ctx context.Context, data ReminderData) error {
	if data.Email == "" {
		return fmt.Errorf("email: client %q has no email address", data.ClientName)
	}

	html, err := m.RenderReminder(data)
	if err != nil {
		return err
	}

	return m.sender.Send(ctx, Message{
		To:      []string{data.Email},
		Subject: reminderSubject(data.DaysRemaining, m.cfg.GymName),
		HTML:    html,
		ReplyTo: m.cfg.FromEmail,
	})
}

// RenderReminder produces the reminder HTML: markdown body, goldmark, layout.
func (m *Mailer) RenderReminder(data ReminderData) (string, error) {
	var md bytes.Buffer
	err := m.remind.Execute(&md, struct {
		ReminderData
		GymName string
	}{data, m.cfg.GymName})
	if err != nil {
		return "", fmt.Errorf("failed to render reminder: %w", err)
	}

	var body bytes.Buffer
	if err := m.md.Convert(md.Bytes(), &body); err != nil {
		return "", fmt.Errorf("failed to convert reminder markdown: %w", err)
	}
	return m.wrap(htmltemplate.HTML(body.String()))
}

func (m *Mailer) wrap(body htmltemplate.HTML) (string, error) {
	var out bytes.Buffer
	err := m.layout.Execute(&out, struct {
		GymName string
		Body    htmltemplate.HTML
	}{m.cfg.GymName, body})
	if err != nil {
		return "", fmt.Errorf("failed to render email layout: %w", err)
	}
	return out.String(), nil
}

func reminderSubject(days int, gym string) string {
	switch {
	case days <= 0:
		return "Tu membresía vence hoy - " + gym
	case days == 1:
		return "Tu membresía vence mañana - " + gym
	default:
		return fmt.Sprintf("Tu membresía vence en %d días - %s", days, gym)
	}
}
