package user

import (
	"context"
	"net/http"

	"dashboard/internal/credentials"
	"dashboard/internal/middleware"
	"dashboard/internal/models"
	"dashboard/internal/utils"
)

type ProfileService interface {
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, in credentials.ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type userPayload struct {
	User *models.User `json:"user"`
}

type ProfileHandler struct {
	Service ProfileService
}

// ServeHTTP handles GET /api/auth/profile
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	u, err := h.Service.Profile(r.Context(), userID)
	if err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data:    userPayload{User: u},
	})
}

type UpdateProfileHandler struct {
	Service ProfileService
}

// ServeHTTP handles PUT and PATCH /api/auth/profile
func (h *UpdateProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req credentials.ProfileInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated successfully",
		Data:    userPayload{User: u},
	})
}
