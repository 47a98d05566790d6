package user

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/notes-api/internal/contextx"
	"github.com/delordemm1/notes-api/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// asUser trusts X-User in place of a bearer token.
func asUser(ctx huma.Context, next func(huma.Context)) {
	if id := ctx.Header("X-User"); id != "" {
		ctx = huma.WithValue(ctx, contextx.UserIDKey, id)
	}
	next(ctx)
}

func newTestAPI(t *testing.T) (humatest.TestAPI, *harness) {
	t.Helper()
	_, api := humatest.New(t)
	h := newHarness()
	NewHandler(h.svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(api, asUser)
	return api, h
}

func body(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestHandler_SignupVerifyLogin(t *testing.T) {
	api, h := newTestAPI(t)

	resp := api.Post("/api/auth/signup", map[string]any{"email": "ada@example.com", "password": "pw-1", "name": "Ada"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := body(t, resp.Body.Bytes())
	assert.Equal(t, "ada@example.com", created["email"])
	assert.Equal(t, "Ada", created["name"])
	assert.NotContains(t, created, "password")

	resp = api.Post("/api/auth/verify-otp", map[string]any{"email": "ada@example.com", "otp": h.notifier.last().Data.Code})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.NotEmpty(t, body(t, resp.Body.Bytes())["token"])

	resp = api.Post("/api/auth/login", map[string]any{"email": "ada@example.com", "password": "pw-1"})
	require.Equal(t, http.StatusOK, resp.Code)
	tok, _ := body(t, resp.Body.Bytes())["token"].(string)
	_, err := h.tokens.Verify(tok)
	assert.NoError(t, err)
}

func TestHandler_RegisterAliasAndConflict(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Post("/api/auth/register", map[string]any{"email": "ada@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = api.Post("/api/auth/signup", map[string]any{"email": "ada@example.com", "password": "pw"})
	assert.Equal(t, http.StatusConflict, resp.Code)
	b := body(t, resp.Body.Bytes())
	assert.Equal(t, "ErrEmailExists", b["code"])
	assert.Equal(t, "CONFLICT", b["kind"])
}

func TestHandler_ProblemStatuses(t *testing.T) {
	api, _ := newTestAPI(t)

	resp := api.Post("/api/auth/login", map[string]any{"email": "nobody@example.com", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "ErrInvalidCredentials", body(t, resp.Body.Bytes())["code"])

	resp = api.Post("/api/auth/otp/request", map[string]any{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Post("/api/auth/verify-otp", map[string]any{"email": "nobody@example.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "ErrInvalidCode", body(t, resp.Body.Bytes())["code"])

	resp = api.Post("/api/auth/google", map[string]any{"token": "forged"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNVERIFIED", body(t, resp.Body.Bytes())["kind"])
}

func TestHandler_GoogleLogin(t *testing.T) {
	api, h := newTestAPI(t)
	h.ids["good"] = &identity.Identity{Email: "g@example.com", Subject: "sub-1", Name: "Grace"}

	resp := api.Post("/api/auth/google", map[string]any{"token": "good"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	b := body(t, resp.Body.Bytes())
	assert.NotEmpty(t, b["token"])
	user := b["user"].(map[string]any)
	assert.Equal(t, "g@example.com", user["email"])
	assert.Equal(t, "Grace", user["name"])
}

func TestHandler_GoogleStartAndCallback(t *testing.T) {
	api, h := newTestAPI(t)
	h.ids["id-token"] = &identity.Identity{Email: "g@example.com", Subject: "sub-1"}
	h.oauth.idToken = "id-token"

	resp := api.Get("/api/auth/google/start")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, body(t, resp.Body.Bytes())["redirectUrl"], "state=")

	var state string
	for s := range h.repo.states {
		state = s
	}
	resp = api.Get("/api/auth/google/callback?code=abc&state=" + state)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = api.Get("/api/auth/google/callback?error=access_denied")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHandler_Profile(t *testing.T) {
	api, h := newTestAPI(t)
	resp := api.Post("/api/auth/signup", map[string]any{"email": "ada@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := h.repo.byEmail("ada@example.com").ID

	resp = api.Get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.Get("/api/auth/me", "X-User: "+id)
	require.Equal(t, http.StatusOK, resp.Code)
	b := body(t, resp.Body.Bytes())
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, false, b["hasGoogle"])

	resp = api.Patch("/api/auth/me", "X-User: "+id, map[string]any{"name": "Ada"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Ada", body(t, resp.Body.Bytes())["name"])
}

func TestHandler_VerifyCodeMalformedInputIsInvalidCode(t *testing.T) {
	api, h := newTestAPI(t)
	resp := api.Post("/api/auth/signup", map[string]any{"email": "ada@example.com", "password": "pw"})
	require.Equal(t, http.StatusCreated, resp.Code)

	for _, in := range []map[string]any{
		{"email": "ada@example.com", "otp": "12345a"},
		{"email": "ada@example.com", "otp": "123"},
		{"email": "ada@example.com", "otp": ""},
		{"email": "not-an-email", "otp": "123456"},
		{},
	} {
		resp := api.Post("/api/auth/verify-otp", in)
		assert.Equal(t, http.StatusBadRequest, resp.Code, in)
		b := body(t, resp.Body.Bytes())
		assert.Equal(t, "ErrInvalidCode", b["code"], in)
		assert.Equal(t, "INVALID", b["kind"], in)
	}

	// The live code survives the rejected attempts.
	assert.Equal(t, StatusPending, h.repo.byEmail("ada@example.com").Status)
	resp = api.Post("/api/auth/verify-otp", map[string]any{"email": "ada@example.com", "otp": h.notifier.last().Data.Code})
	assert.Equal(t, http.StatusOK, resp.Code)
}
