package user

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/notes-api/internal/database"
)

// Repository is the credential store. Every method is a single keyed
// statement; lookups that miss return ErrNotFound.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByEmailOrExternalID matches either key. When both keys hit
	// different rows the external id match wins.
	FindByEmailOrExternalID(ctx context.Context, email, externalID string) (*User, error)

	// CreatePending inserts a password user awaiting code verification.
	CreatePending(ctx context.Context, user *User) error
	// CreateExternal inserts an active, passwordless user.
	CreateExternal(ctx context.Context, user *User) error

	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateExternalID(ctx context.Context, id, externalID string) error
	UpdateDisplayName(ctx context.Context, id string, displayName *string) error

	// Oauth states (authorization-code flow)
	InsertOAuthState(ctx context.Context, state *OAuthState) error
	TakeOAuthState(ctx context.Context, state string) (*OAuthState, error)
	DeleteExpiredOAuthStates(ctx context.Context) (int64, error)
}

var userColumns = []string{
	"id", "email", "password_hash", "external_id", "display_name", "status", "created_at", "updated_at",
}

// repository implements the Repository interface using pgx and squirrel.
type repository struct {
	db   database.DBTX
	psql squirrel.StatementBuilderType
}

func NewRepository(db database.DBTX) Repository {
	return &repository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}
