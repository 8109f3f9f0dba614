package websockets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elcriollo/station-frontend/internal/websockets"
)

func startHub(t *testing.T) (*websockets.Hub, *websocket.Conn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := websockets.NewHub(zerolog.Nop())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websockets.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		websockets.ServeWs(ctx, hub, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) websockets.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg websockets.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_NavigateAndRefresh(t *testing.T) {
	hub, conn := startHub(t)

	hub.Navigate("/login")
	hub.Refresh("tables")

	msg := readMessage(t, conn)
	assert.Equal(t, websockets.TypeNavigate, msg.Type)
	var nav websockets.NavigateData
	require.NoError(t, json.Unmarshal(msg.Data, &nav))
	assert.Equal(t, "/login", nav.Route)

	msg = readMessage(t, conn)
	assert.Equal(t, websockets.TypeRefresh, msg.Type)
	var ref websockets.RefreshData
	require.NoError(t, json.Unmarshal(msg.Data, &ref))
	assert.Equal(t, "tables", ref.Resource)
}

func TestHub_PingPong(t *testing.T) {
	_, conn := startHub(t)

	require.NoError(t, conn.WriteJSON(websockets.Message{Type: websockets.TypePing}))
	assert.Equal(t, websockets.TypePong, readMessage(t, conn).Type)
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub, conn := startHub(t)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestUpgrader_RejectsForeignOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websockets.Upgrader.Upgrade(w, r, nil)
		if err == nil {
			conn.Close()
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
