package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/elcriollo/station-frontend/internal/api"
	"github.com/elcriollo/station-frontend/internal/storage"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports liveness. When the storage driver talks to a
// server, that server must answer too.
type HealthHandler struct {
	storage storage.Storage
}

func NewHealthHandler(st storage.Storage) *HealthHandler {
	return &HealthHandler{storage: st}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	pinger, ok := h.storage.(storage.Pinger)
	if !ok {
		api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := pinger.HealthCheck(ctx); err != nil {
		api.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"storage": err.Error(),
		})
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok"})
}
