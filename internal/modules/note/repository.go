package note

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/delordemm1/notes-api/internal/database"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// Repository scopes every statement by owner; a note that belongs to another
// user is indistinguishable from a missing one.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Note, error)
	Create(ctx context.Context, n *Note) error
	Update(ctx context.Context, n *Note) (*Note, error)
	Delete(ctx context.Context, userID, id string) error
}

var noteColumns = []string{"id", "user_id", "title", "content", "created_at", "updated_at"}

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

// ListByUser returns the user's notes, newest first.
func (r *repository) ListByUser(ctx context.Context, userID string) ([]*Note, error) {
	query, args, err := r.psql.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	notes := []*Note{}
	if err := pgxscan.Select(ctx, r.db, &notes, query, args...); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *repository) Create(ctx context.Context, n *Note) error {
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	query, args, err := r.psql.Insert("notes").
		Columns(noteColumns...).
		Values(n.ID, n.UserID, n.Title, n.Content, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query, args...)
	return err
}

func (r *repository) Update(ctx context.Context, n *Note) (*Note, error) {
	query, args, err := r.psql.Update("notes").
		Set("title", n.Title).
		Set("content", n.Content).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": n.ID, "user_id": n.UserID}).
		Suffix("RETURNING id, user_id, title, content, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out Note
	if err := pgxscan.Get(ctx, r.db, &out, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound.WithCause(err)
		}
		return nil, err
	}
	return &out, nil
}

func (r *repository) Delete(ctx context.Context, userID, id string) error {
	query, args, err := r.psql.Delete("notes").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
