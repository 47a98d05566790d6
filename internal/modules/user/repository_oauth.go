package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

func (r *repository) InsertOAuthState(ctx context.Context, state *OAuthState) error {
	state.CreatedAt = time.Now().UTC()

	query, args, err := r.psql.Insert("oauth_states").
		Columns("state", "provider", "verifier", "expires_at", "created_at").
		Values(state.State, state.Provider, state.Verifier, state.ExpiresAt, state.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

// TakeOAuthState deletes the state row and returns it, so a state can be
// redeemed at most once.
func (r *repository) TakeOAuthState(ctx context.Context, state string) (*OAuthState, error) {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Eq{"state": state}).
		Suffix("RETURNING state, provider, verifier, expires_at, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var s OAuthState
	if err := pgxscan.Get(ctx, r.db, &s, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &s, nil
}

// DeleteExpiredOAuthStates removes abandoned flows and reports how many.
func (r *repository) DeleteExpiredOAuthStates(ctx context.Context) (int64, error) {
	query, args, err := r.psql.Delete("oauth_states").
		Where(squirrel.Lt{"expires_at": time.Now().UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
