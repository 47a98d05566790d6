package user

import (
	"time"
)

// Status is the account lifecycle state.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
)

// User is the core entity of the module. PasswordHash and ExternalID are both
// optional and may coexist once an external identity has been linked.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash *string   `db:"password_hash"`
	ExternalID   *string   `db:"external_id"`
	DisplayName  *string   `db:"display_name"`
	Status       Status    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Name returns the display name or "".
func (u *User) Name() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsActive() bool { return u.Status == StatusActive }

type OAuthProvider string

const OAuthProviderGoogle OAuthProvider = "google"

// OAuthState is a pending authorization-code flow: the CSRF state and the
// PKCE verifier that must accompany the code exchange.
type OAuthState struct {
	State     string        `db:"state"`
	Provider  OAuthProvider `db:"provider"`
	Verifier  string        `db:"verifier"`
	ExpiresAt time.Time     `db:"expires_at"`
	CreatedAt time.Time     `db:"created_at"`
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName *string
}

// ExternalLoginResult is returned by the external-identity paths.
type ExternalLoginResult struct {
	Token string
	User  *User
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
