package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/delordemm1/notes-api/internal/config"
	"github.com/delordemm1/notes-api/internal/notification/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestService(sender emailSender) Service {
	return NewService(testLogger(), sender, templates.NewEngine(templates.Config{}, testLogger()))
}

func TestSend_TypedTemplate(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestService(sender)

	err := Send(context.Background(), svc, templates.LoginCode, "a@x.io",
		templates.CodeData{Code: "123456", ExpiresInMinutes: 5})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	m := sender.sent[0]
	assert.Equal(t, "a@x.io", m.To)
	assert.Equal(t, "Your Notes sign-in code", m.Subject)
	assert.Contains(t, m.Text, "123456")
	assert.Contains(t, m.HTML, "123456")
}

func TestSend_PropagatesSenderError(t *testing.T) {
	boom := errors.New("smtp 421")
	svc := newTestService(&recordingSender{err: boom})

	err := svc.Send(context.Background(), Message{To: "a@x.io", Subject: "s", Text: "t"})
	assert.ErrorIs(t, err, boom)
}

func TestSend_MissingRecipient(t *testing.T) {
	svc := newTestService(&recordingSender{})
	assert.Error(t, svc.Send(context.Background(), Message{Subject: "s"}))
}

func TestDisabledSender(t *testing.T) {
	svc := newTestService(NewDisabledEmailSender())
	err := Send(context.Background(), svc, templates.VerifyEmail, "a@x.io", templates.CodeData{Code: "1", ExpiresInMinutes: 5})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLogSender(t *testing.T) {
	svc := newTestService(NewLogEmailSender(testLogger()))
	assert.NoError(t, svc.Send(context.Background(), Message{To: "a@x.io", Subject: "s", Text: "t"}))
}

func TestBuildMessage(t *testing.T) {
	email := buildMessage("Notes <notes@example.com>", Message{To: "a@x.io", Subject: "Hi", Text: "plain", HTML: "<p>rich</p>"})
	require.NoError(t, email.Error)

	raw := email.GetMessage()
	assert.Contains(t, raw, "Subject: Hi")
	assert.Contains(t, raw, "plain")
	assert.Contains(t, raw, "<p>rich</p>")
}

func TestNewEmailSender(t *testing.T) {
	smtp := config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "notes@example.com"}
	assert.IsType(t, &smtpEmailSender{}, NewEmailSender(smtp, true, testLogger()))
	assert.IsType(t, &logEmailSender{}, NewEmailSender(config.SMTPConfig{}, false, testLogger()))
	assert.IsType(t, disabledEmailSender{}, NewEmailSender(config.SMTPConfig{}, true, testLogger()))
}
