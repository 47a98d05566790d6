package user

import (
	"github.com/delordemm1/notes-api/internal/apperror"
)

// Pre-defined domain errors for the user module. Every one carries its Kind
// so callers can branch on the outcome class instead of the code.
var (
	ErrValidation = apperror.New(apperror.KindValidation,
		"ErrValidation", "email and password are required", "urn:problem:user/err-validation")

	ErrEmailExists = apperror.New(apperror.KindConflict,
		"ErrEmailExists", "a user with this email already exists", "urn:problem:user/err-email-exists")

	ErrNotFound = apperror.New(apperror.KindNotFound,
		"ErrNotFound", "user not found", "urn:problem:user/err-not-found")

	// Auth & credentials
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthenticated,
		"ErrInvalidCredentials", "invalid email or password", "urn:problem:user/err-invalid-credentials")

	ErrAccountNotActive = apperror.New(apperror.KindUnauthenticated,
		"ErrAccountNotActive", "account is not active; verify your email first", "urn:problem:user/err-account-not-active")

	ErrUnauthorized = apperror.New(apperror.KindUnauthenticated,
		"ErrUnauthorized", "authentication required", "urn:problem:user/err-unauthorized")

	// One-time codes
	ErrInvalidCode = apperror.New(apperror.KindInvalid,
		"ErrInvalidCode", "invalid code", "urn:problem:user/err-invalid-code")

	ErrCodeExpired = apperror.New(apperror.KindExpired,
		"ErrCodeExpired", "code has expired", "urn:problem:user/err-code-expired")

	// External identity
	ErrUnverifiedIdentity = apperror.New(apperror.KindUnverified,
		"ErrUnverifiedIdentity", "external identity could not be verified", "urn:problem:user/err-unverified-identity")

	ErrOAuthStateInvalid = apperror.New(apperror.KindInvalid,
		"ErrOAuthStateInvalid", "invalid oauth state", "urn:problem:user/err-oauth-state-invalid")

	ErrOAuthStateExpired = apperror.New(apperror.KindExpired,
		"ErrOAuthStateExpired", "oauth state has expired", "urn:problem:user/err-oauth-state-expired")

	ErrOAuthExchangeFailed = apperror.New(apperror.KindUnverified,
		"ErrOAuthExchangeFailed", "oauth authentication failed", "urn:problem:user/err-oauth-exchange-failed")

	ErrConfig = apperror.New(apperror.KindConfig,
		"ErrConfig", "authentication is not configured on this server", "urn:problem:user/err-config")

	ErrInternal = apperror.New(apperror.KindInternal,
		"ErrInternal", "internal server error", "urn:problem:user/err-internal")
)
