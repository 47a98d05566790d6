package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/notes-api/internal/apperror"
	"github.com/delordemm1/notes-api/internal/contextx"
	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/token"
)

// TokenVerifier checks a bearer token. *token.Issuer satisfies it.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

var (
	errUnauthorized = apperror.New(apperror.KindUnauthenticated,
		"ErrUnauthorized", "authentication required", "urn:problem:auth/err-unauthorized")
	errTokenExpired = apperror.New(apperror.KindUnauthenticated,
		"ErrTokenExpired", "token has expired", "urn:problem:auth/err-token-expired")
	errAuthConfig = apperror.New(apperror.KindConfig,
		"ErrConfig", "authentication is not configured on this server", "urn:problem:auth/err-config")
)

// JWTAuth is a router-agnostic Huma middleware that validates the bearer
// token and stores the user id and email in the request context. Failures
// are written as problem+json.
func JWTAuth(verifier TokenVerifier, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		raw, found := strings.CutPrefix(ctx.Header("Authorization"), "Bearer ")
		raw = strings.TrimSpace(raw)
		if !found || raw == "" {
			writeProblem(ctx, errUnauthorized.WithDetail("missing or malformed bearer token"))
			return
		}

		claims, err := verifier.Verify(raw)
		switch {
		case err == nil:
		case errors.Is(err, token.ErrTokenExpired):
			writeProblem(ctx, errTokenExpired)
			return
		case errors.Is(err, token.ErrNotConfigured):
			logger.Error("bearer token rejected: signing secret not configured")
			writeProblem(ctx, errAuthConfig)
			return
		default:
			logger.Warn("invalid bearer token", "error", err)
			writeProblem(ctx, errUnauthorized.WithDetail("invalid token"))
			return
		}

		ctx = huma.WithValue(ctx, contextx.UserIDKey, claims.Subject)
		ctx = huma.WithValue(ctx, contextx.EmailKey, claims.Email)
		next(ctx)
	}
}

func writeProblem(ctx huma.Context, err error) {
	var p *httpx.Problem
	if !errors.As(httpx.ToProblem(ctx.Context(), err), &p) {
		p = httpx.InternalProblem(ctx.Context(), "")
	}
	ctx.SetHeader("Content-Type", "application/problem+json")
	ctx.SetStatus(p.GetStatus())
	_ = json.NewEncoder(ctx.BodyWriter()).Encode(p)
}
