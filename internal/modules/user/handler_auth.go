package user

import (
	"context"

	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/validation"
)

// --- DTOs ---

type SignupRequest struct {
	Body struct {
		Email    string `json:"email" format:"email" validate:"required,email"`
		Password string `json:"password" minLength:"1" validate:"required,max=72"`
		Name     string `json:"name,omitempty" maxLength:"100" validate:"max=100"`
	}
}

type SignupResponse struct {
	Body UserDTO
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" format:"email" validate:"required,email"`
		Password string `json:"password" minLength:"1" validate:"required"`
	}
}

type RequestCodeRequest struct {
	Body struct {
		Email string `json:"email" format:"email" validate:"required,email"`
	}
}

type MessageResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

// VerifyCodeRequest is not shape-checked: anything other than the live code
// for the email is ErrInvalidCode.
type VerifyCodeRequest struct {
	Body struct {
		Email string `json:"email,omitempty"`
		Code  string `json:"otp,omitempty"`
	}
}

// --- Handlers ---

func (h *Handler) SignupHandler(ctx context.Context, input *SignupRequest) (*SignupResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	u, err := h.service.Signup(ctx, SignupInput{
		Email:    input.Body.Email,
		Password: input.Body.Password,
		Name:     input.Body.Name,
	})
	if err != nil {
		h.logger.Warn("signup failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return &SignupResponse{Body: toUserDTO(u)}, nil
}

func (h *Handler) LoginHandler(ctx context.Context, input *LoginRequest) (*TokenResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	tok, err := h.service.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &TokenResponse{}
	resp.Body.Token = tok
	return resp, nil
}

func (h *Handler) RequestCodeHandler(ctx context.Context, input *RequestCodeRequest) (*MessageResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	if err := h.service.RequestCode(ctx, input.Body.Email); err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &MessageResponse{}
	resp.Body.Message = "a sign-in code has been sent to your email"
	return resp, nil
}

func (h *Handler) VerifyCodeHandler(ctx context.Context, input *VerifyCodeRequest) (*TokenResponse, error) {
	tok, err := h.service.VerifyCode(ctx, input.Body.Email, input.Body.Code)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &TokenResponse{}
	resp.Body.Token = tok
	return resp, nil
}
