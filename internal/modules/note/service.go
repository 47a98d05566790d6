package note

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, userID string) ([]*Note, error)
	Create(ctx context.Context, userID string, in Input) (*Note, error)
	Update(ctx context.Context, userID, id string, in Input) (*Note, error)
	Delete(ctx context.Context, userID, id string) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// Config holds the dependencies for the note service.
type Config struct {
	Repo   Repository
	Logger *slog.Logger
}

func NewService(cfg *Config) Service {
	return &service{repo: cfg.Repo, logger: cfg.Logger}
}

func (s *service) List(ctx context.Context, userID string) ([]*Note, error) {
	notes, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list notes failed", "user_id", userID, "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return notes, nil
}

func (s *service) Create(ctx context.Context, userID string, in Input) (*Note, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	n := &Note{ID: id.String(), UserID: userID, Title: in.Title, Content: in.Content}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create note failed", "user_id", userID, "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	s.logger.Info("note created", "user_id", userID, "note_id", n.ID)
	return n, nil
}

func (s *service) Update(ctx context.Context, userID, id string, in Input) (*Note, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	n, err := s.repo.Update(ctx, &Note{ID: id, UserID: userID, Title: in.Title, Content: in.Content})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("update note failed", "user_id", userID, "note_id", id, "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return n, nil
}

// Delete removes a note the user owns. Absent and foreign notes both yield
// ErrNotFound.
func (s *service) Delete(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("delete note failed", "user_id", userID, "note_id", id, "error", err)
		return ErrInternal.WithCause(err)
	}
	s.logger.Info("note deleted", "user_id", userID, "note_id", id)
	return nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return ErrValidation
	}
	return nil
}

// Ids are uuids; anything else cannot name a stored note.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
