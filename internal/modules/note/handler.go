package note

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/delordemm1/notes-api/internal/apperror"
	"github.com/delordemm1/notes-api/internal/contextx"
	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/validation"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

var errUnauthorized = apperror.New(apperror.KindUnauthenticated,
	"ErrUnauthorized", "authentication required", "urn:problem:note/err-unauthorized")

// RegisterRoutes mounts /api/notes. Every operation requires a bearer token.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	security := []map[string][]string{{"bearer": {}}}
	mw := huma.Middlewares{requireAuth}

	huma.Register(api, huma.Operation{
		OperationID: "list-notes",
		Method:      http.MethodGet,
		Path:        "/api/notes",
		Summary:     "List the current user's notes, newest first",
		Tags:        []string{"notes"},
		Security:    security,
		Middlewares: mw,
	}, h.ListHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "create-note",
		Method:        http.MethodPost,
		Path:          "/api/notes",
		Summary:       "Create a note",
		Tags:          []string{"notes"},
		DefaultStatus: http.StatusCreated,
		Security:      security,
		Middlewares:   mw,
	}, h.CreateHandler)

	huma.Register(api, huma.Operation{
		OperationID: "update-note",
		Method:      http.MethodPut,
		Path:        "/api/notes/{id}",
		Summary:     "Replace a note's title and content",
		Tags:        []string{"notes"},
		Security:    security,
		Middlewares: mw,
	}, h.UpdateHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-note",
		Method:        http.MethodDelete,
		Path:          "/api/notes/{id}",
		Summary:       "Delete a note",
		Tags:          []string{"notes"},
		DefaultStatus: http.StatusNoContent,
		Security:      security,
		Middlewares:   mw,
	}, h.DeleteHandler)
}

// --- DTOs ---

type NoteDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toDTO(n *Note) NoteDTO {
	return NoteDTO{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt, UpdatedAt: n.UpdatedAt}
}

type ListResponse struct {
	Body []NoteDTO
}

type NoteBody struct {
	Title   string `json:"title" maxLength:"200" validate:"notblank,max=200"`
	Content string `json:"content" validate:"notblank"`
}

type CreateRequest struct {
	Body NoteBody
}

type UpdateRequest struct {
	ID   string `path:"id"`
	Body NoteBody
}

type NoteResponse struct {
	Body NoteDTO
}

type DeleteRequest struct {
	ID string `path:"id"`
}

// --- Handlers ---

func (h *Handler) ListHandler(ctx context.Context, _ *struct{}) (*ListResponse, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, errUnauthorized)
	}

	notes, err := h.service.List(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	out := make([]NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toDTO(n))
	}
	return &ListResponse{Body: out}, nil
}

func (h *Handler) CreateHandler(ctx context.Context, input *CreateRequest) (*NoteResponse, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, errUnauthorized)
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	n, err := h.service.Create(ctx, userID, Input{Title: input.Body.Title, Content: input.Body.Content})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &NoteResponse{Body: toDTO(n)}, nil
}

func (h *Handler) UpdateHandler(ctx context.Context, input *UpdateRequest) (*NoteResponse, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, errUnauthorized)
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	n, err := h.service.Update(ctx, userID, input.ID, Input{Title: input.Body.Title, Content: input.Body.Content})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &NoteResponse{Body: toDTO(n)}, nil
}

func (h *Handler) DeleteHandler(ctx context.Context, input *DeleteRequest) (*struct{}, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		return nil, httpx.ToProblem(ctx, errUnauthorized)
	}

	if err := h.service.Delete(ctx, userID, input.ID); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return &struct{}{}, nil
}
