// Package otp issues and checks short-lived six-digit sign-in codes.
//
// At most one live code exists per email: issuing again overwrites it. A
// successful check consumes the code, and so does a check that finds it
// expired. A mismatched or unknown code leaves the stored entry untouched.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// DefaultTTL is how long a code stays valid after issuance.
const DefaultTTL = 5 * time.Minute

var (
	ErrInvalidCode = errors.New("otp: invalid code")
	ErrCodeExpired = errors.New("otp: code expired")
)

// Issuer is the one-time-code capability the auth service depends on.
type Issuer interface {
	Issue(ctx context.Context, email string) (string, error)
	Verify(ctx context.Context, email, code string) error
}

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly random, zero-padded six digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("otp: generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
