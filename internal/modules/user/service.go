package user

import (
	"context"
	"log/slog"
	"time"

	"github.com/delordemm1/notes-api/internal/config"
	"github.com/delordemm1/notes-api/internal/identity"
	"github.com/delordemm1/notes-api/internal/notification"
	"github.com/delordemm1/notes-api/internal/otp"
	"github.com/delordemm1/notes-api/internal/token"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Service is the auth orchestrator. Each call runs to completion on the
// caller's goroutine; collaborators are invoked with the caller's context.
type Service interface {
	// Password & code auth
	Signup(ctx context.Context, in SignupInput) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
	RequestCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)

	// External identity
	ExternalLogin(ctx context.Context, assertion string) (*ExternalLoginResult, error)
	StartGoogleLogin(ctx context.Context) (redirectURL string, err error)
	CompleteGoogleLogin(ctx context.Context, state, code string) (*ExternalLoginResult, error)
	PurgeExpiredOAuthStates(ctx context.Context) (int64, error)

	// Profile
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error)
}

// TokenIssuer signs session tokens. *token.Issuer satisfies it.
type TokenIssuer interface {
	Issue(c token.Claims, ttl time.Duration) (string, error)
}

// oauthClient is the part of *oauth2.Config the code flow uses.
type oauthClient interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

type service struct {
	repo     Repository
	codes    otp.Issuer
	identity identity.Verifier
	tokens   TokenIssuer
	notifier notification.Service
	oauth    oauthClient
	logger   *slog.Logger
	config   *config.Config
	now      func() time.Time
}

// Config holds the dependencies for the user service.
type Config struct {
	Repo     Repository
	Codes    otp.Issuer
	Identity identity.Verifier
	Tokens   TokenIssuer
	Notifier notification.Service
	Logger   *slog.Logger
	Config   *config.Config

	// OAuth overrides the Google client built from Config.Google.
	OAuth oauthClient
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewService(cfg *Config) Service {
	s := &service{
		repo:     cfg.Repo,
		codes:    cfg.Codes,
		identity: cfg.Identity,
		tokens:   cfg.Tokens,
		notifier: cfg.Notifier,
		oauth:    cfg.OAuth,
		logger:   cfg.Logger,
		config:   cfg.Config,
		now:      cfg.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.oauth == nil && s.config.Google.CodeFlowEnabled() {
		s.oauth = &oauth2.Config{
			ClientID:     s.config.Google.ClientID,
			ClientSecret: s.config.Google.ClientSecret,
			RedirectURL:  s.config.Google.RedirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}
	return s
}
