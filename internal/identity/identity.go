// Package identity validates assertions issued by an external identity
// provider and turns them into a verified email/subject pair.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

var (
	ErrNotConfigured = errors.New("identity: provider not configured")
	ErrUnverified    = errors.New("identity: assertion could not be verified")
)

// Identity is what a successful verification yields.
type Identity struct {
	Email   string
	Subject string
	Name    string
}

type Verifier interface {
	Verify(ctx context.Context, assertion string) (*Identity, error)
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens against the configured client id.
type GoogleVerifier struct {
	audience string
	validate validateFunc
}

// NewGoogleVerifier returns a verifier for clientID. An empty clientID is
// allowed; every call then fails with ErrNotConfigured.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{audience: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (*Identity, error) {
	if v.audience == "" {
		return nil, ErrNotConfigured
	}
	if strings.TrimSpace(assertion) == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnverified)
	}

	payload, err := v.validate(ctx, assertion, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnverified, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: token carries no email", ErrUnverified)
	}
	if !emailVerified(payload.Claims["email_verified"]) {
		return nil, fmt.Errorf("%w: email not verified by provider", ErrUnverified)
	}
	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: token carries no subject", ErrUnverified)
	}

	name, _ := payload.Claims["name"].(string)
	return &Identity{Email: email, Subject: payload.Subject, Name: name}, nil
}

// Google has sent email_verified both as a bool and as a string.
func emailVerified(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}
