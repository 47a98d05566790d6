package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/delordemm1/notes-api/internal/apperror"
	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/middleware"
	"github.com/delordemm1/notes-api/internal/modules/note"
	"github.com/delordemm1/notes-api/internal/modules/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the services the HTTP layer dispatches to.
type Deps struct {
	Users  user.Service
	Notes  note.Service
	Tokens middleware.TokenVerifier
	Logger *slog.Logger
}

var (
	errRouteNotFound = apperror.New(apperror.KindNotFound,
		"ErrNotFound", "no such route", "urn:problem:err-not-found")
	errMethodNotAllowed = apperror.New(apperror.KindNotFound,
		"ErrNotFound", "method not allowed on this route", "urn:problem:err-not-found")
)

func init() {
	// Framework-generated errors use the same problem format as handlers.
	huma.NewError = httpx.NewError
}

// New builds the router with every API operation mounted.
func New(deps Deps) chi.Router {
	router := chi.NewMux()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(chimw.Timeout(60 * time.Second))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteProblem(w, r, errRouteNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteProblem(w, r, errMethodNotAllowed)
	})

	apiConfig := huma.DefaultConfig("Notes API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	requireAuth := middleware.JWTAuth(deps.Tokens, deps.Logger)
	user.NewHandler(deps.Users, deps.Logger).RegisterRoutes(api, requireAuth)
	note.NewHandler(deps.Notes, deps.Logger).RegisterRoutes(api, requireAuth)

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		resp := &HealthResponse{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}

type HealthResponse struct {
	Body struct {
		Status string `json:"status"`
	}
}
