package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const oauthStateTTL = 10 * time.Minute

// ExternalLogin signs in with a provider-issued ID token. Unknown identities
// get an active passwordless account; an existing email account gets the
// external id linked with its password left in place.
func (s *service) ExternalLogin(ctx context.Context, assertion string) (*ExternalLoginResult, error) {
	id, err := s.identity.Verify(ctx, assertion)
	if err != nil {
		mapped := mapIdentityError(err)
		s.logger.Warn("external identity rejected", "error", err)
		return nil, mapped
	}

	u, err := s.repo.FindByEmailOrExternalID(ctx, id.Email, id.Subject)
	switch {
	case errors.Is(err, ErrNotFound):
		u, err = s.createExternalUser(ctx, id.Email, id.Subject, id.Name)
		if err != nil {
			return nil, err
		}
	case err != nil:
		s.logger.Error("external login: find user failed", "error", err)
		return nil, ErrInternal.WithCause(err)
	case u.ExternalID == nil:
		if err := s.repo.UpdateExternalID(ctx, u.ID, id.Subject); err != nil {
			if errors.Is(err, ErrEmailExists) {
				return nil, err
			}
			s.logger.Error("external login: link identity failed", "user_id", u.ID, "error", err)
			return nil, ErrInternal.WithCause(err)
		}
		u.ExternalID = &id.Subject
		s.logger.Info("external identity linked", "user_id", u.ID)
	}

	name := u.Name()
	if name == "" {
		name = id.Name
	}
	tok, err := s.issueToken(u, name, id.Subject)
	if err != nil {
		return nil, err
	}
	if u.DisplayName == nil && name != "" {
		u.DisplayName = &name
	}

	s.logger.Info("user logged in", "user_id", u.ID, "method", "external")
	return &ExternalLoginResult{Token: tok, User: u}, nil
}

func (s *service) createExternalUser(ctx context.Context, email, subject, name string) (*User, error) {
	uid, err := newID()
	if err != nil {
		return nil, ErrInternal.WithCause(err)
	}
	u := &User{
		ID:          uid,
		Email:       email,
		ExternalID:  &subject,
		DisplayName: nullable(name),
	}
	if err := s.repo.CreateExternal(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		s.logger.Error("failed to create external user", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	s.logger.Info("new user created via external identity", "user_id", u.ID)
	return u, nil
}

// StartGoogleLogin begins the authorization-code flow with PKCE and returns
// the consent URL. The state and verifier are kept server-side.
func (s *service) StartGoogleLogin(ctx context.Context) (string, error) {
	if s.oauth == nil {
		return "", ErrConfig.WithDetail("google sign-in is not configured")
	}

	state, err := generateSecureToken(32)
	if err != nil {
		return "", ErrInternal.WithCause(fmt.Errorf("generate oauth state: %w", err))
	}
	verifier := oauth2.GenerateVerifier()

	err = s.repo.InsertOAuthState(ctx, &OAuthState{
		State:     state,
		Provider:  OAuthProviderGoogle,
		Verifier:  verifier,
		ExpiresAt: s.now().Add(oauthStateTTL),
	})
	if err != nil {
		s.logger.Error("failed to store oauth state", "error", err)
		return "", ErrInternal.WithCause(err)
	}

	return s.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), nil
}

// CompleteGoogleLogin redeems the state, exchanges the code and feeds the
// returned ID token into ExternalLogin.
func (s *service) CompleteGoogleLogin(ctx context.Context, state, code string) (*ExternalLoginResult, error) {
	if s.oauth == nil {
		return nil, ErrConfig.WithDetail("google sign-in is not configured")
	}
	if state == "" || code == "" {
		return nil, ErrOAuthStateInvalid
	}

	st, err := s.repo.TakeOAuthState(ctx, state)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOAuthStateInvalid.WithCause(err)
		}
		s.logger.Error("error getting oauth state", "error", err)
		return nil, ErrInternal.WithCause(err)
	}
	if st.Provider != OAuthProviderGoogle {
		return nil, ErrOAuthStateInvalid
	}
	if s.now().After(st.ExpiresAt) {
		return nil, ErrOAuthStateExpired
	}

	tok, err := s.oauth.Exchange(ctx, code, oauth2.VerifierOption(st.Verifier))
	if err != nil {
		s.logger.Warn("oauth code exchange failed", "error", err)
		return nil, ErrOAuthExchangeFailed.WithCause(err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, ErrOAuthExchangeFailed.WithDetail("provider returned no id_token")
	}

	return s.ExternalLogin(ctx, idToken)
}

func (s *service) PurgeExpiredOAuthStates(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredOAuthStates(ctx)
	if err != nil {
		return 0, ErrInternal.WithCause(err)
	}
	if n > 0 {
		s.logger.Debug("expired oauth states removed", "count", n)
	}
	return n, nil
}
