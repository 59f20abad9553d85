package auth

import (
	"context"
	"net/http"

	"dashboard/internal/credentials"
	"dashboard/internal/middleware"
	"dashboard/internal/utils"
)

type LogoutService interface {
	Logout(ctx context.Context, userID string) error
}

// LogoutHandler acknowledges a logout. The client drops its token; nothing
// is revoked server side.
type LogoutHandler struct {
	Service LogoutService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())
	if err := h.Service.Logout(r.Context(), userID); err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Logout successful",
	})
}
