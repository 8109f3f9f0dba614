package handler

import (
	"net/http"
	"strings"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

// AuthHandler serves the anonymous entry points and the session view.
type AuthHandler struct {
	auth     *service.AuthService
	sessions gate.SessionReader
}

func NewAuthHandler(auth *service.AuthService, sessions gate.SessionReader) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var form forms.LoginForm
	if !decodeForm(w, r, &form) {
		return
	}
	respondResult(w, h.auth.Login(r.Context(), form.Email, form.Password))
}

func (h *AuthHandler) QuickLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role models.Role `json:"role"`
	}
	if err := api.DecodeJSON(r, &body); err != nil || !body.Role.Valid() {
		api.BadRequest(w, "Rol inválido")
		return
	}

	res := h.auth.QuickLogin(r.Context(), body.Role)
	if !res.Success && strings.HasPrefix(res.Message, service.MsgQuickLoginDisabled) {
		api.Forbidden(w, res.Message)
		return
	}
	respondResult(w, res)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form forms.RegisterForm
	if err := api.DecodeJSON(r, &form); err != nil {
		api.BadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}
	form.Normalize()
	if !validateForm(w, &form) {
		return
	}
	respondResult(w, h.auth.Register(r.Context(), form.Request()))
}

// Logout ends the session. The store's teardown hooks drop any order being
// composed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		api.RespondError(w, http.StatusInternalServerError, "No se pudo cerrar la sesión")
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Session reports the resolution state, the user and the quick-login
// roles offered on the login screen.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	body := struct {
		State           string        `json:"state"`
		User            *models.User  `json:"user,omitempty"`
		QuickLoginRoles []models.Role `json:"quickLoginRoles,omitempty"`
	}{
		State:           h.sessions.State().String(),
		QuickLoginRoles: h.auth.QuickLoginRoles(),
	}
	if cur, ok := h.sessions.Current(); ok {
		body.User = &cur.User
	}
	api.RespondJSON(w, http.StatusOK, body)
}
