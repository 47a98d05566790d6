package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/delordemm1/notes-api/internal/config"
	"github.com/delordemm1/notes-api/internal/notification/templates"
)

// ErrNotConfigured is returned when no outbound mail transport is available.
var ErrNotConfigured = errors.New("notification: email delivery not configured")

// Message is one outbound email. HTML is optional; Text is always sent.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type emailSender interface {
	Send(ctx context.Context, m Message) error
}

// Service delivers user-facing messages. Delivery is synchronous so callers
// decide whether a failure matters.
type Service interface {
	Send(ctx context.Context, m Message) error
	SendTemplate(ctx context.Context, to, templateID string, data any) error
}

type service struct {
	log      *slog.Logger
	sender   emailSender
	renderer templates.Renderer
}

func NewService(log *slog.Logger, sender emailSender, renderer templates.Renderer) Service {
	return &service{
		log:      log,
		sender:   sender,
		renderer: renderer,
	}
}

func (s *service) Send(ctx context.Context, m Message) error {
	if m.To == "" {
		return errors.New("notification: missing recipient")
	}
	if err := s.sender.Send(ctx, m); err != nil {
		s.log.Error("failed to send email", "recipient", m.To, "subject", m.Subject, "error", err)
		return err
	}
	s.log.Info("email dispatched", "recipient", m.To, "subject", m.Subject)
	return nil
}

func (s *service) SendTemplate(ctx context.Context, to, templateID string, data any) error {
	r, err := s.renderer.RenderAny(ctx, templateID, data)
	if err != nil {
		return fmt.Errorf("notification: render %s: %w", templateID, err)
	}
	return s.Send(ctx, Message{To: to, Subject: r.Subject, Text: r.EmailText, HTML: r.EmailHTML})
}

// Send renders the typed template h and delivers it to to.
func Send[T any](ctx context.Context, svc Service, h templates.Handle[T], to string, data T) error {
	return svc.SendTemplate(ctx, to, h.ID(), data)
}

// NewEmailSender picks the transport: SMTP when configured, otherwise the
// logging sender in development and a sender that always fails with
// ErrNotConfigured in production.
func NewEmailSender(cfg config.SMTPConfig, production bool, log *slog.Logger) emailSender {
	switch {
	case cfg.Enabled():
		return NewSMTPEmailSender(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From, log)
	case production:
		log.Warn("SMTP is not configured; email delivery is disabled")
		return NewDisabledEmailSender()
	default:
		log.Info("SMTP is not configured; emails will be written to the log")
		return NewLogEmailSender(log)
	}
}
