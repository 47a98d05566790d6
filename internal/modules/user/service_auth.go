package user

import (
	"context"
	"errors"
)

// Signup creates a pending password user and mails a verification code.
// The code is issued before the insert, so a code store failure leaves no
// account behind. A failed delivery is logged and does not undo the signup.
func (s *service) Signup(ctx context.Context, in SignupInput) (*User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrValidation
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, ErrValidation.WithDetail("password must be at most 72 bytes")
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, ErrNotFound) {
		s.logger.Error("signup: find user failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, ErrInternal.WithCause(err)
	}

	id, err := newID()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	code, err := s.codes.Issue(ctx, in.Email)
	if err != nil {
		s.logger.Error("signup: issue code failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	u := &User{
		ID:           id,
		Email:        in.Email,
		PasswordHash: &hash,
		DisplayName:  nullable(in.Name),
	}
	if err := s.repo.CreatePending(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		s.logger.Error("failed to create user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	s.logger.Info("user registered", "user_id", u.ID)

	if err := s.deliverCode(ctx, u, code, true); err != nil {
		s.logger.Warn("signup: verification code not delivered", "user_id", u.ID, "error", err)
	}
	return u, nil
}

// Login checks an email/password pair. Unknown email, passwordless account
// and wrong password all yield the same ErrInvalidCredentials.
func (s *service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		s.logger.Error("login: find user failed", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	if !u.HasPassword() || !checkPasswordHash(password, *u.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	if !u.IsActive() {
		return "", ErrAccountNotActive
	}

	tok, err := s.issueToken(u, u.Name(), "")
	if err != nil {
		return "", err
	}
	s.logger.Info("user logged in", "user_id", u.ID, "method", "password")
	return tok, nil
}
