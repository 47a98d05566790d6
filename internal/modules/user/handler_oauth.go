package user

import (
	"context"

	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/validation"
)

// --- DTOs ---

type GoogleLoginRequest struct {
	Body struct {
		Token string `json:"token" minLength:"1" validate:"required"`
	}
}

type GoogleStartResponse struct {
	Body struct {
		RedirectURL string `json:"redirectUrl"`
	}
}

type GoogleCallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

// --- Handlers ---

func (h *Handler) GoogleLoginHandler(ctx context.Context, input *GoogleLoginRequest) (*ExternalLoginResponse, error) {
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	res, err := h.service.ExternalLogin(ctx, input.Body.Token)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toExternalLoginResponse(res), nil
}

// GoogleStartHandler returns the consent URL as JSON so SPA clients can
// navigate to it themselves.
func (h *Handler) GoogleStartHandler(ctx context.Context, _ *struct{}) (*GoogleStartResponse, error) {
	url, err := h.service.StartGoogleLogin(ctx)
	if err != nil {
		h.logger.Error("failed to initiate google login", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}

	resp := &GoogleStartResponse{}
	resp.Body.RedirectURL = url
	return resp, nil
}

func (h *Handler) GoogleCallbackHandler(ctx context.Context, input *GoogleCallbackRequest) (*ExternalLoginResponse, error) {
	if input.Error != "" {
		h.logger.Warn("google consent denied", "error", input.Error)
		return nil, httpx.ToProblem(ctx, ErrOAuthExchangeFailed.WithDetail("authorization was denied: "+input.Error))
	}

	res, err := h.service.CompleteGoogleLogin(ctx, input.State, input.Code)
	if err != nil {
		h.logger.Warn("google callback failed", "error", err)
		return nil, httpx.ToProblem(ctx, err)
	}
	return toExternalLoginResponse(res), nil
}
