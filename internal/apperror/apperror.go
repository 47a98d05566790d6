// Package apperror holds the structured domain error shared by every module.
//
// A DomainError carries both a caller-visible Kind (the outcome taxonomy) and
// RFC 7807 metadata, so internal/httpx can format any module's error into a
// problem response without enumerating error types.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error outcome independently of transport.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOTFOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindInvalid         Kind = "INVALID"
	KindExpired         Kind = "EXPIRED"
	KindUnverified      Kind = "UNVERIFIED"
	KindConfig          Kind = "CONFIGERROR"
	KindInternal        Kind = "INTERNAL"
)

// DomainError is a structured, self-describing domain error.
type DomainError struct {
	// Code is a stable, machine-readable business code (e.g., "ErrInvalidCode").
	Code string

	// Kind is the outcome class reported to callers.
	Kind Kind

	// HTTPStatus is the HTTP status suggested for this error.
	HTTPStatus int

	// Title is a short human summary; if empty the formatter defaults to StatusText(HTTPStatus).
	Title string

	// Message is a human-readable message. When Detail is empty it is used as the public detail.
	Message string

	// Detail is a user-friendly, safe explanation for clients.
	Detail string

	// TypeURI is an RFC 7807 type URI, e.g. "urn:problem:user/err-invalid-code".
	TypeURI string

	// Context is an optional extension payload for clients.
	Context any

	cause error
}

// New builds a DomainError whose status and title follow from kind.
func New(kind Kind, code, message, typeURI string) *DomainError {
	status := StatusFor(kind)
	return &DomainError{
		Code:       code,
		Kind:       kind,
		HTTPStatus: status,
		Title:      http.StatusText(status),
		Message:    message,
		TypeURI:    typeURI,
	}
}

// StatusFor maps an outcome kind to its HTTP status.
func StatusFor(kind Kind) int {
	switch kind {
	case KindValidation, KindInvalid, KindExpired:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated, KindUnverified:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error includes the underlying cause's message if there is one.
func (e *DomainError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Message
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is compares on Code so copies made by WithCause still match their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy wrapping err.
func (e *DomainError) WithCause(err error) *DomainError {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// WithDetail returns a copy with a client-facing detail message.
func (e *DomainError) WithDetail(detail string) *DomainError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithContext returns a copy carrying an extension payload.
func (e *DomainError) WithContext(ctx any) *DomainError {
	cp := *e
	cp.Context = ctx
	return &cp
}

// --- RFC7807 mapping accessors (satisfy httpx.DomainProblem) ---

func (e *DomainError) ProblemCode() string { return e.Code }

func (e *DomainError) ProblemStatus() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

func (e *DomainError) ProblemTitle() string { return e.Title }

func (e *DomainError) ProblemDetail() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

func (e *DomainError) ProblemTypeURI() string { return e.TypeURI }
func (e *DomainError) ProblemContext() any    { return e.Context }
func (e *DomainError) ProblemKind() string    { return string(e.Kind) }

// KindOf reports the kind of err, or KindInternal when err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) && de.Kind != "" {
		return de.Kind
	}
	return KindInternal
}
