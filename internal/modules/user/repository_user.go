package user

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/notes-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, r.psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1))
}

// FindByEmail matches the address exactly; no case folding is applied.
func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, r.psql.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1))
}

func (r *repository) FindByEmailOrExternalID(ctx context.Context, email, externalID string) (*User, error) {
	return r.findOne(ctx, r.psql.Select(userColumns...).
		From("users").
		Where(squirrel.Or{
			squirrel.Eq{"email": email},
			squirrel.Eq{"external_id": externalID},
		}).
		OrderByClause("CASE WHEN external_id = ? THEN 0 ELSE 1 END", externalID).
		Limit(1))
}

func (r *repository) findOne(ctx context.Context, q squirrel.SelectBuilder) (*User, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var user User
	if err := pgxscan.Get(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) CreatePending(ctx context.Context, user *User) error {
	user.Status = StatusPending
	return r.insert(ctx, user)
}

func (r *repository) CreateExternal(ctx context.Context, user *User) error {
	user.Status = StatusActive
	user.PasswordHash = nil
	return r.insert(ctx, user)
}

func (r *repository) insert(ctx context.Context, user *User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.Email, user.PasswordHash, user.ExternalID, user.DisplayName,
			user.Status, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrEmailExists.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return r.updateOne(ctx, id, map[string]any{"status": status})
}

// UpdateExternalID links an external identity. The password hash is untouched.
func (r *repository) UpdateExternalID(ctx context.Context, id, externalID string) error {
	return r.updateOne(ctx, id, map[string]any{"external_id": externalID})
}

func (r *repository) UpdateDisplayName(ctx context.Context, id string, displayName *string) error {
	return r.updateOne(ctx, id, map[string]any{"display_name": displayName})
}

func (r *repository) updateOne(ctx context.Context, id string, fields map[string]any) error {
	query, args, err := r.psql.Update("users").
		SetMap(fields).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return ErrEmailExists.WithCause(err).WithDetail("this identity is already linked to another account")
		}
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
