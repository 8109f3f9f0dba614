package handler

import (
	"net/http"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

// UserHandler is user administration.
type UserHandler struct {
	accounts *service.AccountService
	refresh  Refresher
}

func NewUserHandler(accounts *service.AccountService, refresh Refresher) *UserHandler {
	return &UserHandler{accounts: accounts, refresh: refresh}
}

// List serves the accounts, optionally filtered by ?role=, with a tally
// per role over all of them.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.accounts.List(r.Context())
	if !res.Success {
		respondResult(w, res)
		return
	}

	role := models.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		api.BadRequest(w, "Rol inválido")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   service.FilterUsers(res.Data, role),
		"byRole":  service.CountByRole(res.Data),
	})
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.AccountForm
	if !decodeForm(w, r, &form) {
		return
	}
	res := h.accounts.Create(r.Context(), form.Request())
	if res.Success {
		h.refresh.Refresh("users")
	}
	respondResult(w, res)
}
