package user

import (
	"context"
	"time"

	"github.com/delordemm1/notes-api/internal/contextx"
	"github.com/delordemm1/notes-api/internal/httpx"
	"github.com/delordemm1/notes-api/internal/validation"
)

// --- DTOs & Mappers ---

type ProfileResponse struct {
	Body struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Status    Status    `json:"status"`
		HasGoogle bool      `json:"hasGoogle"`
		CreatedAt time.Time `json:"createdAt"`
	}
}

func toProfileResponse(u *User) *ProfileResponse {
	var resp ProfileResponse
	resp.Body.ID = u.ID
	resp.Body.Email = u.Email
	resp.Body.Name = u.Name()
	resp.Body.Status = u.Status
	resp.Body.HasGoogle = u.ExternalID != nil
	resp.Body.CreatedAt = u.CreatedAt
	return &resp
}

type UpdateProfileRequest struct {
	Body struct {
		Name *string `json:"name,omitempty" maxLength:"100" validate:"omitempty,max=100"`
	}
}

// --- Handlers ---

// GetProfileHandler relies on the auth middleware having set the user id.
func (h *Handler) GetProfileHandler(ctx context.Context, _ *struct{}) (*ProfileResponse, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		h.logger.Error("user id missing from authenticated context")
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}

	u, err := h.service.GetProfile(ctx, userID)
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toProfileResponse(u), nil
}

func (h *Handler) UpdateProfileHandler(ctx context.Context, input *UpdateProfileRequest) (*ProfileResponse, error) {
	userID := contextx.UserID(ctx)
	if userID == "" {
		h.logger.Error("user id missing from authenticated context")
		return nil, httpx.ToProblem(ctx, ErrUnauthorized)
	}
	if verr := validation.ValidateStruct(&input.Body); verr != nil {
		return nil, httpx.ToProblem(ctx, verr)
	}

	u, err := h.service.UpdateProfile(ctx, userID, UpdateProfileInput{DisplayName: input.Body.Name})
	if err != nil {
		return nil, httpx.ToProblem(ctx, err)
	}
	return toProfileResponse(u), nil
}
