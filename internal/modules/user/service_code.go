package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/delordemm1/notes-api/internal/notification"
	"github.com/delordemm1/notes-api/internal/notification/templates"
)

// RequestCode mails a sign-in code to an existing active user.
func (s *service) RequestCode(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound.WithDetail("user not found or not active")
		}
		s.logger.Error("request code: find user failed", "error", err)
		return ErrInternal.WithCause(err)
	}
	if !u.IsActive() {
		return ErrNotFound.WithDetail("user not found or not active")
	}

	code, err := s.codes.Issue(ctx, u.Email)
	if err != nil {
		s.logger.Error("request code: issue code failed", "error", err)
		return ErrInternal.WithCause(err)
	}
	if err := s.deliverCode(ctx, u, code, false); err != nil {
		if errors.Is(err, notification.ErrNotConfigured) {
			return ErrConfig.WithCause(err).WithDetail("email delivery is not configured")
		}
		return ErrInternal.WithCause(err).WithDetail("failed to send code")
	}
	return nil
}

// VerifyCode redeems a code, activates a pending account and returns a
// session token. A rejected code leaves the account untouched.
func (s *service) VerifyCode(ctx context.Context, email, code string) (string, error) {
	if email == "" || code == "" {
		return "", ErrInvalidCode
	}

	if err := s.codes.Verify(ctx, email, code); err != nil {
		mapped := mapCodeError(err)
		if errors.Is(mapped, ErrInternal) {
			s.logger.Error("verify code: store failed", "error", err)
		}
		return "", mapped
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		s.logger.Error("verify code: find user failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	if u.Status == StatusPending {
		if err := s.repo.UpdateStatus(ctx, u.ID, StatusActive); err != nil {
			s.logger.Error("verify code: activate user failed", "user_id", u.ID, "error", err)
			return "", ErrInternal.WithCause(err)
		}
		u.Status = StatusActive
		s.logger.Info("user activated", "user_id", u.ID)
	}

	tok, err := s.issueToken(u, "", "")
	if err != nil {
		return "", err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "method", "code")
	return tok, nil
}

// deliverCode mails code to u using the verification or sign-in template.
func (s *service) deliverCode(ctx context.Context, u *User, code string, verify bool) error {
	h := templates.LoginCode
	if verify {
		h = templates.VerifyEmail
	}
	data := templates.CodeData{
		Name:             u.Name(),
		Code:             code,
		ExpiresInMinutes: int(s.config.Auth.CodeTTL.Minutes()),
	}
	if err := notification.Send(ctx, s.notifier, h, u.Email, data); err != nil {
		return fmt.Errorf("deliver code: %w", err)
	}
	return nil
}
