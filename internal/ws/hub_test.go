package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		draftID := r.URL.Query().Get("draft")
		hub.AddConnection(draftID, conn)
		defer hub.RemoveConnection(draftID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, draftID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?draft=" + draftID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastReachesOnlyThatDraft(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)

	a := dial(t, srv, "a")
	b := dial(t, srv, "b")
	waitFor(t, func() bool { return hub.Connections("a") == 1 && hub.Connections("b") == 1 })

	hub.Broadcast("a", WSMessage{Type: MessageToast, Data: map[string]string{"title": "Saved"}})

	var got struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, a.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, a.ReadJSON(&got))
	assert.Equal(t, MessageToast, got.Type)
	assert.Equal(t, "Saved", got.Data["title"])

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err, "draft b must not receive draft a's messages")
}

func TestConnectionsAreRemovedOnClose(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)

	conn := dial(t, srv, "a")
	waitFor(t, func() bool { return hub.Connections("a") == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Connections("a") == 0 })

	hub.Broadcast("a", WSMessage{Type: MessageState})
}

func TestBroadcastReachesEveryEditor(t *testing.T) {
	hub := NewHub()
	srv := newHubServer(t, hub)

	first := dial(t, srv, "a")
	second := dial(t, srv, "a")
	waitFor(t, func() bool { return hub.Connections("a") == 2 })

	hub.Broadcast("a", WSMessage{Type: MessageState, Data: map[string]string{"title": "Draft"}})

	for _, conn := range []*websocket.Conn{first, second} {
		var got WSMessage
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, MessageState, got.Type)
	}
}
