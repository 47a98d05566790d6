package user

import (
	"context"
	"errors"
	"strings"
)

func (s *service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("get profile failed", "user_id", userID, "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields. An empty display name clears it.
func (s *service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error) {
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if err := s.repo.UpdateDisplayName(ctx, userID, nullable(name)); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrNotFound
			}
			s.logger.Error("update profile failed", "user_id", userID, "error", err)
			return nil, ErrInternal.WithCause(err)
		}
		s.logger.Info("profile updated", "user_id", userID)
	}
	return s.GetProfile(ctx, userID)
}
