package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) Enabled() bool { return true }

func TestNewSender(t *testing.T) {
	s, err := NewSender(Config{Provider: "none"})
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = NewSender(Config{Provider: "smtp"})
	assert.Error(t, err)

	_, err = NewSender(Config{Provider: "resend"})
	assert.Error(t, err)

	s, err = NewSender(Config{Provider: "resend", ResendAPIKey: "re_test"})
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, s)

	_, err = NewSender(Config{Provider: "pigeon"})
	assert.Error(t, err)
}

func TestSendPasswordReset(t *testing.T) {
	rec := &recordingSender{}
	m := NewMailer(rec, Config{FrontendURL: "https://intranet.spartagym.pe/"})

	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@spartagym.pe", "tok+en"))

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, []string{"ana@spartagym.pe"}, msg.To)
	assert.Contains(t, msg.Subject, "Sparta Gym")
	assert.Contains(t, msg.HTML, "https://intranet.spartagym.pe/reset-password?token=tok%2Ben")
}

func TestRenderReminderEscapesNames(t *testing.T) {
	m := NewMailer(&recordingSender{}, Config{GymName: "Sparta Gym"})

	html, err := m.RenderReminder(ReminderData{
		ClientName:    "<script>x</script>",
		Plan:          "Mensual",
		ExpiresOn:     "20/10/2026",
		DaysRemaining: 3,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>Hola")
	assert.Contains(t, html, "<strong>Mensual</strong>")
	assert.Contains(t, html, "en 3 días")
	assert.NotContains(t, html, "<script>")
}

func TestSendMembershipReminder(t *testing.T) {
	rec := &recordingSender{}
	m := NewMailer(rec, Config{GymName: "Sparta Gym", FromEmail: "hola@spartagym.pe"})

	err := m.SendMembershipReminder(context.Background(), ReminderData{ClientName: "Luis"})
	assert.Error(t, err)

	err = m.SendMembershipReminder(context.Background(), ReminderData{
		ClientName: "Luis", Email: "luis@mail.pe", Plan: "Trimestral", ExpiresOn: "17/10/2026", DaysRemaining: 1,
	})
	require.NoError(t, err)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, "Tu membresía vence mañana - Sparta Gym", rec.sent[0].Subject)
	assert.Equal(t, "hola@spartagym.pe", rec.sent[0].ReplyTo)
}

func TestSMTPSenderBuildsMessage(t *testing.T) {
	s := NewSMTPSender(Config{SMTPHost: "smtp.local", SMTPPort: 587, FromEmail: "no-reply@spartagym.pe", FromName: "Sparta Gym"})

	var gotAddr string
	var gotMsg []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		return nil
	}

	err := s.Send(context.Background(), Message{To: []string{"a@b.pe"}, Subject: "Hola", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "smtp.local:587", gotAddr)
	body := string(gotMsg)
	assert.True(t, strings.HasPrefix(body, "From: \"Sparta Gym\" <no-reply@spartagym.pe>\r\n"))
	assert.Contains(t, body, "Subject: Hola\r\n")
	assert.True(t, strings.HasSuffix(body, "\r\n\r\n<p>x</p>"))
}

func TestReminderSubject(t *testing.T) {
	assert.Equal(t, "Tu membresía vence hoy - G", reminderSubject(0, "G"))
	assert.Equal(t, "Tu membresía vence en 4 días - G", reminderSubject(4, "G"))
}
