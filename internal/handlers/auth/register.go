package auth

import (
	"context"
	"net/http"

	"dashboard/internal/credentials"
	"dashboard/internal/utils"
)

// Registrar is the part of credentials.Service the register handler needs.
type Registrar interface {
	Register(ctx context.Context, in credentials.RegisterInput) (*credentials.Result, error)
}

type RegisterHandler struct {
	Service Registrar
}

// ServeHTTP handles POST /api/auth/register
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentials.RegisterInput
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.Service.Register(r.Context(), req)
	if err != nil {
		utils.Fail(w, credentials.StatusCode(err), credentials.PublicMessage(err))
		return
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    res,
	})
}
