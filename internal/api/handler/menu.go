package handler

import (
	"net/http"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

// MenuHandler handles menu-related requests
type MenuHandler struct {
	menu *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menu *service.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// List serves the menu grouped by category, filtered by ?category= and ?q=.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.menu.List(r.Context())
	if !res.Success {
		respondResult(w, res)
		return
	}

	q := r.URL.Query()
	items := service.FilterMenu(res.Data, q.Get("category"), q.Get("q"))

	message := ""
	if len(items) == 0 {
		message = "No se encontraron productos"
	}

	api.RespondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    message,
		"count":      len(items),
		"categories": models.Categories,
		"groups":     service.GroupByCategory(items),
	})
}
