package websockets

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	// The UI only ever sends pings.
	maxMessageSize = 4 * 1024
)

type MessageType string

const (
	TypeNavigate MessageType = "navigate"
	TypeRefresh  MessageType = "refresh"
	TypePing     MessageType = "ping"
	TypePong     MessageType = "pong"
)

type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type NavigateData struct {
	Route string `json:"route"`
}

type RefreshData struct {
	Resource string `json:"resource"`
}

type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// enqueue queues message for the write pump. It reports false when the
// client is gone or too slow to keep up.
func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Str("client_id", c.id).Msg("Websocket closed unexpectedly")
			}
			break
		}

		var wsMessage Message
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			c.hub.log.Debug().Err(err).Str("client_id", c.id).Msg("Error unmarshaling message")
			continue
		}

		switch wsMessage.Type {
		case TypePing:
			pong, _ := json.Marshal(Message{Type: TypePong})
			c.enqueue(pong)
		default:
			c.hub.log.Debug().Str("type", string(wsMessage.Type)).Msg("Ignoring client message")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One event per frame so each frame is a complete JSON document.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs registers conn with the hub and starts its pumps. ctx is the hub's
// lifetime.
func ServeWs(ctx context.Context, hub *Hub, conn *websocket.Conn) {
	client := NewClient(hub, conn)

	select {
	case client.hub.register <- client:
	case <-ctx.Done():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(ctx)
}
