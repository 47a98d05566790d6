// Package token issues and verifies the signed bearer tokens handed out by
// every login path. Tokens are HS256 JWTs and are not stored server-side.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultIssuer = "notes-api"

var (
	ErrNotConfigured = errors.New("token: signing secret not configured")
	ErrInvalidToken  = errors.New("token: invalid")
	ErrTokenExpired  = errors.New("token: expired")
)

// Claims is the token payload. Subject carries the user id.
type Claims struct {
	UserID     string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with one server secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewIssuer returns an Issuer whose tokens live for ttl unless a call
// overrides it. An empty secret is accepted; Issue and Verify then fail with
// ErrNotConfigured instead of the process refusing to start.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: defaultIssuer,
		now:    time.Now,
	}
}

// WithClock is for tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// TTL is the lifetime applied when Issue is called with ttl <= 0.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs c. A ttl <= 0 selects the configured lifetime.
func (i *Issuer) Issue(c Claims, ttl time.Duration) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNotConfigured
	}
	if c.UserID == "" {
		return "", fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}
	if ttl <= 0 {
		ttl = i.ttl
	}

	now := i.now().UTC()
	c.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   c.UserID,
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	if len(i.secret) == 0 {
		return nil, ErrNotConfigured
	}

	c := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, c,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}
	return c, nil
}
