package websockets

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

const broadcastBuffer = 64

// Hub fans events out to every connected UI client.
type Hub struct {
	clients map[*Client]bool

	register chan *Client

	unregister chan *Client

	broadcast chan []byte

	log zerolog.Logger

	mu sync.RWMutex
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log.With().Str("component", "websockets").Logger(),
	}
}

// Navigate tells every client to move to route.
func (h *Hub) Navigate(route string) {
	h.publish(TypeNavigate, NavigateData{Route: route})
}

// Refresh tells every client that resource changed and should be re-listed.
func (h *Hub) Refresh(resource string) {
	h.publish(TypeRefresh, RefreshData{Resource: resource})
}

func (h *Hub) publish(t MessageType, data any) {
	msg, err := newMessage(t, data)
	if err != nil {
		h.log.Error().Err(err).Str("type", string(t)).Msg("Failed to encode event")
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn().Str("type", string(t)).Msg("Event dropped, broadcast queue full")
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run delivers events until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.log.Debug().Str("client_id", client.id).Msg("Client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			h.log.Debug().Str("client_id", client.id).Msg("Client disconnected")
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.enqueue(message) {
					client.close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func newMessage(t MessageType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: t, Data: raw})
}
