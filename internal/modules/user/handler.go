package user

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Handler holds the dependencies for the user module's HTTP handlers.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

var bearerSecurity = []map[string][]string{{"bearer": {}}}

// RegisterRoutes mounts the /api/auth operations. requireAuth guards the
// profile endpoints.
func (h *Handler) RegisterRoutes(api huma.API, requireAuth func(huma.Context, func(huma.Context))) {
	// --- Password & code auth ---
	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          "/api/auth/signup",
		Summary:       "Register a new user",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
	}, h.SignupHandler)

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register a new user (alias of signup)",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
	}, h.SignupHandler)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"auth"},
	}, h.LoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "request-code",
		Method:      http.MethodPost,
		Path:        "/api/auth/otp/request",
		Summary:     "Email a one-time sign-in code",
		Tags:        []string{"auth"},
	}, h.RequestCodeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "verify-code",
		Method:      http.MethodPost,
		Path:        "/api/auth/verify-otp",
		Summary:     "Redeem a one-time code",
		Tags:        []string{"auth"},
	}, h.VerifyCodeHandler)

	// --- External identity ---
	huma.Register(api, huma.Operation{
		OperationID: "google-login",
		Method:      http.MethodPost,
		Path:        "/api/auth/google",
		Summary:     "Sign in with a Google ID token",
		Tags:        []string{"auth"},
	}, h.GoogleLoginHandler)

	huma.Register(api, huma.Operation{
		OperationID: "google-start",
		Method:      http.MethodGet,
		Path:        "/api/auth/google/start",
		Summary:     "Begin the Google authorization-code flow",
		Tags:        []string{"auth"},
	}, h.GoogleStartHandler)

	huma.Register(api, huma.Operation{
		OperationID: "google-callback",
		Method:      http.MethodGet,
		Path:        "/api/auth/google/callback",
		Summary:     "Finish the Google authorization-code flow",
		Tags:        []string{"auth"},
	}, h.GoogleCallbackHandler)

	// --- Profile ---
	huma.Register(api, huma.Operation{
		OperationID: "get-profile",
		Method:      http.MethodGet,
		Path:        "/api/auth/me",
		Summary:     "Get the current user's profile",
		Tags:        []string{"profile"},
		Security:    bearerSecurity,
		Middlewares: huma.Middlewares{requireAuth},
	}, h.GetProfileHandler)

	huma.Register(api, huma.Operation{
		OperationID: "update-profile",
		Method:      http.MethodPatch,
		Path:        "/api/auth/me",
		Summary:     "Update the current user's profile",
		Tags:        []string{"profile"},
		Security:    bearerSecurity,
		Middlewares: huma.Middlewares{requireAuth},
	}, h.UpdateProfileHandler)
}

// UserDTO is the public view of a user.
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(u *User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name()}
}

// TokenResponse is returned by the password and code login paths.
type TokenResponse struct {
	Body struct {
		Token string `json:"token"`
	}
}

// ExternalLoginResponse carries the token and the signed-in user.
type ExternalLoginResponse struct {
	Body struct {
		Token string  `json:"token"`
		User  UserDTO `json:"user"`
	}
}

func toExternalLoginResponse(r *ExternalLoginResult) *ExternalLoginResponse {
	resp := &ExternalLoginResponse{}
	resp.Body.Token = r.Token
	resp.Body.User = toUserDTO(r.User)
	return resp
}
