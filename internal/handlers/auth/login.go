package auth

import (
	"context"
	"net/http"

	"dashboard/internal/credentials"
	"dashboard/internal/utils"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*credentials.Result, error)
}

type LoginHandler struct {
	Service Authenticator
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeHTTP handles POST /api/auth/login
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data:    res,
	})
}
