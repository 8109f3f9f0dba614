package handler

import (
	"context"
	"net/http"

	"github.com/elcriollo/station-frontend/internal/websockets"
)

type WebSocketHandler struct {
	ctx context.Context
	hub *websockets.Hub
}

// NewWebSocketHandler serves UI event connections for as long as ctx lives.
func NewWebSocketHandler(ctx context.Context, hub *websockets.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		ctx: ctx,
		hub: hub,
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websockets.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written the error
		return
	}
	websockets.ServeWs(h.ctx, h.hub, conn)
}
