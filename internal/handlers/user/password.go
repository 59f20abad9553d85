package user

import (
	"net/http"

	"dashboard/internal/credentials"
	"dashboard/internal/middleware"
	"dashboard/internal/utils"
)

type ChangePasswordHandler struct {
	Service ProfileService
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeHTTP handles POST /api/auth/change-password
func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		utils.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ChangePasswordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}
