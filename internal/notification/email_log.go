package notification

import (
	"context"
	"log/slog"
)

// logEmailSender writes messages to the log instead of sending them. It is
// used in development when SMTP is not configured.
type logEmailSender struct {
	log *slog.Logger
}

func NewLogEmailSender(log *slog.Logger) emailSender {
	return &logEmailSender{log: log}
}

func (s *logEmailSender) Send(_ context.Context, m Message) error {
	s.log.Info("email (not sent, smtp disabled)", "to", m.To, "subject", m.Subject, "body", m.Text)
	return nil
}

// disabledEmailSender fails every send. Production uses it when SMTP is
// missing so code delivery errors surface instead of vanishing into logs.
type disabledEmailSender struct{}

func NewDisabledEmailSender() emailSender { return disabledEmailSender{} }

func (disabledEmailSender) Send(context.Context, Message) error { return ErrNotConfigured }
