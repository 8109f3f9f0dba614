package handler

import (
	"net/http"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/forms"
	"github.com/elcriollo/station-frontend/internal/models"
	"github.com/elcriollo/station-frontend/internal/service"
)

type TableHandler struct {
	tables  *service.TableService
	refresh Refresher
}

func NewTableHandler(tables *service.TableService, refresh Refresher) *TableHandler {
	return &TableHandler{tables: tables, refresh: refresh}
}

// List serves the tables, optionally filtered by ?status=.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.tables.List(r.Context())
	if !res.Success {
		respondResult(w, res)
		return
	}
	h.respondList(w, res.Data, models.TableStatus(r.URL.Query().Get("status")), "")
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form forms.TableForm
	if !decodeForm(w, r, &form) {
		return
	}
	res := h.tables.Create(r.Context(), form.Request())
	if !res.Success {
		respondResult(w, res)
		return
	}
	h.afterMutation(w, r, res.Message)
}

// ChangeStatus moves a table to a new status. The API only takes whole
// tables, so the current one is fetched and sent back with the new status.
func (h *TableHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var form forms.TableStatusForm
	if !decodeForm(w, r, &form) {
		return
	}
	current := h.tables.Get(r.Context(), id)
	if !current.Success {
		respondResult(w, current)
		return
	}
	res := h.tables.SetStatus(r.Context(), current.Data, form.TableStatus)
	if !res.Success {
		respondResult(w, res)
		return
	}
	h.afterMutation(w, r, res.Message)
}

// afterMutation re-lists the tables so the view shows the API's state
// rather than a locally patched copy.
func (h *TableHandler) afterMutation(w http.ResponseWriter, r *http.Request, message string) {
	h.refresh.Refresh("tables")

	res := h.tables.List(r.Context())
	if !res.Success {
		api.RespondJSON(w, http.StatusOK, map[string]any{"success": true, "message": message, "stale": true})
		return
	}
	h.respondList(w, res.Data, "", message)
}

func (h *TableHandler) respondList(w http.ResponseWriter, tables []models.Table, status models.TableStatus, message string) {
	api.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  message,
		"tables":   service.FilterTables(tables, status),
		"byStatus": service.CountByStatus(tables),
	})
}
