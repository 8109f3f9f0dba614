package handler

import (
	"net/http"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/gate"
	"github.com/elcriollo/station-frontend/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	system    *service.SystemService
	sessions  gate.SessionReader
}

func NewDashboardHandler(dashboard *service.DashboardService, system *service.SystemService, sessions gate.SessionReader) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, system: system, sessions: sessions}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	cur, _ := h.sessions.Current()

	api.RespondJSON(w, http.StatusOK, map[string]any{
		"greeting":  gate.Greeting(cur.User.Role),
		"user":      cur.User,
		"shortcuts": gate.Shortcuts(cur.User.Role),
		"stats":     h.dashboard.Stats(r.Context()),
	})
}

// System reports API reachability.
func (h *DashboardHandler) System(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, h.system.Info(r.Context()))
}
