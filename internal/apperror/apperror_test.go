package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindInvalid, http.StatusBadRequest},
		{KindExpired, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindUnverified, http.StatusUnauthorized},
		{KindConfig, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.kind))
		})
	}
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	sentinel := New(KindNotFound, "ErrNotFound", "user not found", "urn:problem:user/err-not-found")
	wrapped := sentinel.WithCause(errors.New("no rows"))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("repo: %w", wrapped), sentinel))

	other := New(KindConflict, "ErrEmailExists", "exists", "")
	assert.False(t, errors.Is(wrapped, other))
}

func TestDomainError_ErrorIncludesCause(t *testing.T) {
	e := New(KindInternal, "ErrInternal", "internal server error", "")

	assert.Equal(t, "internal server error", e.Error())
	assert.Equal(t, "internal server error: db down", e.WithCause(errors.New("db down")).Error())
	assert.Equal(t, "try later", e.WithDetail("try later").Error())
}

func TestDomainError_CopiesDoNotMutateSentinel(t *testing.T) {
	e := New(KindValidation, "ErrValidation", "validation failed", "")
	_ = e.WithDetail("email is required").WithContext(map[string]any{"field": "email"})

	assert.Empty(t, e.Detail)
	assert.Nil(t, e.Context)
}

func TestDomainError_ProblemAccessors(t *testing.T) {
	e := New(KindExpired, "ErrCodeExpired", "code expired", "urn:problem:user/err-code-expired")

	assert.Equal(t, "ErrCodeExpired", e.ProblemCode())
	assert.Equal(t, http.StatusBadRequest, e.ProblemStatus())
	assert.Equal(t, "Bad Request", e.ProblemTitle())
	assert.Equal(t, "code expired", e.ProblemDetail())
	assert.Equal(t, "EXPIRED", e.ProblemKind())

	var zero DomainError
	assert.Equal(t, http.StatusInternalServerError, zero.ProblemStatus())
}

func TestKindOf(t *testing.T) {
	e := New(KindUnverified, "ErrUnverifiedIdentity", "unverified", "")

	assert.Equal(t, KindUnverified, KindOf(fmt.Errorf("wrap: %w", e)))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
