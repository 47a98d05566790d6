package user

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/delordemm1/notes-api/internal/config"
	"github.com/delordemm1/notes-api/internal/identity"
	"github.com/delordemm1/notes-api/internal/notification"
	"github.com/delordemm1/notes-api/internal/notification/templates"
	"github.com/delordemm1/notes-api/internal/otp"
	"github.com/delordemm1/notes-api/internal/token"
	"golang.org/x/oauth2"
)

const testSecret = "user-module-test-secret"

// fakeRepo is an in-memory Repository keyed by user id.
type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	states map[string]*OAuthState
	err    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}, states: map[string]*OAuthState{}}
}

func clone(u *User) *User {
	cp := *u
	return &cp
}

func (f *fakeRepo) FindByID(_ context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) FindByEmailOrExternalID(_ context.Context, email, externalID string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var byEmail *User
	for _, u := range f.users {
		if u.ExternalID != nil && *u.ExternalID == externalID {
			return clone(u), nil
		}
		if u.Email == email {
			byEmail = u
		}
	}
	if byEmail != nil {
		return clone(byEmail), nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) create(u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = clone(u)
	return nil
}

func (f *fakeRepo) CreatePending(_ context.Context, u *User) error {
	u.Status = StatusPending
	return f.create(u)
}

func (f *fakeRepo) CreateExternal(_ context.Context, u *User) error {
	u.Status = StatusActive
	u.PasswordHash = nil
	return f.create(u)
}

func (f *fakeRepo) update(id string, apply func(*User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	apply(u)
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	return f.update(id, func(u *User) { u.Status = status })
}

func (f *fakeRepo) UpdateExternalID(_ context.Context, id, externalID string) error {
	return f.update(id, func(u *User) { u.ExternalID = &externalID })
}

func (f *fakeRepo) UpdateDisplayName(_ context.Context, id string, name *string) error {
	return f.update(id, func(u *User) { u.DisplayName = name })
}

func (f *fakeRepo) InsertOAuthState(_ context.Context, s *OAuthState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.states[s.State] = &cp
	return nil
}

func (f *fakeRepo) TakeOAuthState(_ context.Context, state string) (*OAuthState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[state]
	if !ok {
		return nil, ErrNotFound
	}
	delete(f.states, state)
	return s, nil
}

func (f *fakeRepo) DeleteExpiredOAuthStates(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for k, s := range f.states {
		if s.ExpiresAt.Before(time.Now()) {
			delete(f.states, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) byEmail(email string) *User {
	u, _ := f.FindByEmail(context.Background(), email)
	return u
}

type sentCode struct {
	To       string
	Template string
	Data     templates.CodeData
}

// recordingNotifier captures every templated message instead of mailing it.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *recordingNotifier) Send(context.Context, notification.Message) error { return n.err }

func (n *recordingNotifier) SendTemplate(_ context.Context, to, templateID string, data any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	d, _ := data.(templates.CodeData)
	n.sent = append(n.sent, sentCode{To: to, Template: templateID, Data: d})
	return nil
}

func (n *recordingNotifier) last() sentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return sentCode{}
	}
	return n.sent[len(n.sent)-1]
}

// fakeIdentity maps assertions to identities.
type fakeIdentity map[string]*identity.Identity

func (f fakeIdentity) Verify(_ context.Context, assertion string) (*identity.Identity, error) {
	if id, ok := f[assertion]; ok {
		return id, nil
	}
	return nil, identity.ErrUnverified
}

// fakeOAuth stands in for Google's authorization server.
type fakeOAuth struct {
	idToken     string
	exchangeErr error
	// options seen by the last Exchange; the PKCE verifier rides here.
	exchangeOpts int
}

func (f *fakeOAuth) AuthCodeURL(state string, _ ...oauth2.AuthCodeOption) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + url.QueryEscape(state)
}

func (f *fakeOAuth) Exchange(_ context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	if code == "" {
		return nil, errors.New("empty code")
	}
	f.exchangeOpts = len(opts)
	tok := &oauth2.Token{AccessToken: "access", TokenType: "Bearer"}
	return tok.WithExtra(map[string]any{"id_token": f.idToken}), nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	svc      Service
	repo     *fakeRepo
	notifier *recordingNotifier
	codes    *otp.MemoryStore
	tokens   *token.Issuer
	ids      fakeIdentity
	oauth    *fakeOAuth
	clock    *clock
}

// unavailableCodes fails every call, like a code store that is down.
type unavailableCodes struct{}

var errStoreDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (unavailableCodes) Issue(context.Context, string) (string, error) { return "", errStoreDown }
func (unavailableCodes) Verify(context.Context, string, string) error { return errStoreDown }

// newHarness wires the service over fakes. Options may replace collaborators
// on the Config before the service is built.
func newHarness(opts ...func(*Config)) *harness {
	c := &clock{now: time.Now()}
	h := &harness{
		repo:     newFakeRepo(),
		notifier: &recordingNotifier{},
		codes:    otp.NewMemoryStore(5 * time.Minute).WithClock(c.Now),
		tokens:   token.NewIssuer(testSecret, time.Hour),
		ids:      fakeIdentity{},
		oauth:    &fakeOAuth{},
		clock:    c,
	}
	cfg := &Config{
		Repo:     h.repo,
		Codes:    h.codes,
		Identity: h.ids,
		Tokens:   h.tokens,
		Notifier: h.notifier,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: &config.Config{Auth: config.AuthConfig{
			SessionTTL: time.Hour,
			CodeTTL:    5 * time.Minute,
			BcryptCost: 4,
		}},
		OAuth: h.oauth,
		Now:   c.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	h.svc = NewService(cfg)
	return h
}
