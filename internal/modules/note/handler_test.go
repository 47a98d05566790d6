package note

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/delordemm1/notes-api/internal/contextx"
	"github.com/google/uuid"
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

func newTestAPI(t *testing.T) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(&Config{Repo: newFakeRepo(), Logger: logger})
	NewHandler(svc, logger).RegisterRoutes(api, asUser)
	return api
}

func decodeNote(t *testing.T, body []byte) NoteDTO {
	t.Helper()
	var n NoteDTO
	require.NoError(t, json.Unmarshal(body, &n))
	return n
}

func problemCode(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	code, _ := m["code"].(string)
	return code
}

func TestHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/notes", "X-User: u1", map[string]any{"title": "groceries", "content": "milk"})
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decodeNote(t, resp.Body.Bytes())
	assert.Equal(t, "groceries", created.Title)
	assert.NotEmpty(t, created.ID)

	resp = api.Get("/api/notes", "X-User: u1")
	require.Equal(t, http.StatusOK, resp.Code)
	var list []NoteDTO
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	resp = api.Put("/api/notes/"+created.ID, "X-User: u1", map[string]any{"title": "groceries", "content": "milk, eggs"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "milk, eggs", decodeNote(t, resp.Body.Bytes()).Content)

	resp = api.Delete("/api/notes/"+created.ID, "X-User: u1")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Get("/api/notes", "X-User: u1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestHandler_RequiresUser(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Get("/api/notes")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "ErrUnauthorized", problemCode(t, resp.Body.Bytes()))
}

func TestHandler_BlankTitleIsValidationError(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/notes", "X-User: u1", map[string]any{"title": "   ", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "ErrValidation", problemCode(t, resp.Body.Bytes()))
}

func TestHandler_OtherUsersNoteIsNotFound(t *testing.T) {
	api := newTestAPI(t)

	resp := api.Post("/api/notes", "X-User: owner", map[string]any{"title": "t", "content": "c"})
	require.Equal(t, http.StatusCreated, resp.Code)
	id := decodeNote(t, resp.Body.Bytes()).ID

	resp = api.Put("/api/notes/"+id, "X-User: intruder", map[string]any{"title": "x", "content": "y"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "ErrNotFound", problemCode(t, resp.Body.Bytes()))

	resp = api.Delete("/api/notes/"+uuid.NewString(), "X-User: owner")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
