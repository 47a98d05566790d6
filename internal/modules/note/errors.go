package note

import "github.com/delordemm1/notes-api/internal/apperror"

var (
	ErrValidation = apperror.New(apperror.KindValidation,
		"ErrValidation", "title and content are required", "urn:problem:note/err-validation")

	// ErrNotFound also covers notes owned by someone else.
	ErrNotFound = apperror.New(apperror.KindNotFound,
		"ErrNotFound", "note not found", "urn:problem:note/err-not-found")

	ErrInternal = apperror.New(apperror.KindInternal,
		"ErrInternal", "internal server error", "urn:problem:note/err-internal")
)
