package user

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/delordemm1/notes-api/internal/identity"
	"github.com/delordemm1/notes-api/internal/otp"
	"github.com/delordemm1/notes-api/internal/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores everything past 72 bytes; longer input is rejected.
const maxPasswordBytes = 72

func (s *service) hashPassword(password string) (string, error) {
	cost := s.config.Auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// issueToken signs a session token with the configured lifetime.
func (s *service) issueToken(u *User, name, externalID string) (string, error) {
	tok, err := s.tokens.Issue(token.Claims{
		UserID:     u.ID,
		Email:      u.Email,
		Name:       name,
		ExternalID: externalID,
	}, 0)
	if err != nil {
		if errors.Is(err, token.ErrNotConfigured) {
			s.logger.Error("token signing secret is not configured")
			return "", ErrConfig.WithCause(err)
		}
		s.logger.Error("failed to sign token", "user_id", u.ID, "error", err)
		return "", ErrInternal.WithCause(err)
	}
	return tok, nil
}

func mapCodeError(err error) error {
	switch {
	case errors.Is(err, otp.ErrInvalidCode):
		return ErrInvalidCode.WithCause(err)
	case errors.Is(err, otp.ErrCodeExpired):
		return ErrCodeExpired.WithCause(err)
	default:
		return ErrInternal.WithCause(err)
	}
}

func mapIdentityError(err error) error {
	switch {
	case errors.Is(err, identity.ErrNotConfigured):
		return ErrConfig.WithCause(err)
	case errors.Is(err, identity.ErrUnverified):
		return ErrUnverifiedIdentity.WithCause(err)
	default:
		return ErrInternal.WithCause(err)
	}
}

// generateSecureToken creates a random, URL-safe string of length random bytes.
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
