package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mail "github.com/xhit/go-simple-mail/v2"
)

// smtpEmailSender sends mail through an SMTP relay with STARTTLS.
type smtpEmailSender struct {
	server *mail.SMTPServer
	from   string
	log    *slog.Logger
}

func NewSMTPEmailSender(host string, port int, username, password, from string, log *slog.Logger) emailSender {
	server := mail.NewSMTPClient()
	server.Host = host
	server.Port = port
	server.Username = username
	server.Password = password
	server.Encryption = mail.EncryptionSTARTTLS
	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	return &smtpEmailSender{
		server: server,
		from:   from,
		log:    log,
	}
}

func (s *smtpEmailSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	email := buildMessage(s.from, m)
	if email.Error != nil {
		return fmt.Errorf("build email: %w", email.Error)
	}

	client, err := s.server.Connect()
	if err != nil {
		return fmt.Errorf("connect to SMTP server: %w", err)
	}
	defer client.Close()

	if err := email.Send(client); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Debug("email sent via smtp", "to", m.To)
	return nil
}

func buildMessage(from string, m Message) *mail.Email {
	email := mail.NewMSG()
	email.SetFrom(from).AddTo(m.To).SetSubject(m.Subject)
	if m.HTML != "" {
		email.SetBody(mail.TextHTML, m.HTML)
		email.AddAlternative(mail.TextPlain, m.Text)
	} else {
		email.SetBody(mail.TextPlain, m.Text)
	}
	return email
}
