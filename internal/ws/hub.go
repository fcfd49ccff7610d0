// Package ws pushes draft updates to the editors that have a draft open.
// Every change produces a "state" message carrying the rendered draft, and
// import, generate and submit outcomes produce "toast" notifications.
package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// MessageState carries a composer.View.
	MessageState = "state"
	// MessageToast carries a models.Toast.
	MessageToast = "toast"

	writeWait = 5 * time.Second
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub keys editor connections by draft id. A draft with no editor left has
// no entry, so broadcasting to it is a no-op.
type Hub struct {
	mu     sync.RWMutex
	drafts map[string]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		drafts: make(map[string]map[*websocket.Conn]bool),
	}
}

// AddConnection registers an editor of draftID. The caller owns the read
// loop and must call RemoveConnection when it ends.
func (h *Hub) AddConnection(draftID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	editors := h.drafts[draftID]
	if editors == nil {
		editors = make(map[*websocket.Conn]bool)
		h.drafts[draftID] = editors
	}
	editors[conn] = true
	log.Printf("ws: editor joined draft %s (%d open)", draftID, len(editors))
}

// RemoveConnection closes conn. It is safe to call after Broadcast already
// dropped the connection.
func (h *Hub) RemoveConnection(draftID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	editors := h.drafts[draftID]
	if !editors[conn] {
		return
	}
	h.drop(draftID, editors, conn)
	log.Printf("ws: editor left draft %s", draftID)
}

// Connections reports how many editors have the draft open.
func (h *Hub) Connections(draftID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.drafts[draftID])
}

// Broadcast sends one state or toast message to every editor of draftID.
// Writes are serialized by the hub lock; an editor that cannot take the
// message within writeWait is disconnected.
func (h *Hub) Broadcast(draftID string, message WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	editors := h.drafts[draftID]
	if len(editors) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: cannot encode %s message for draft %s: %v", message.Type, draftID, err)
		return
	}

	for conn := range editors {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: dropping editor of draft %s: %v", draftID, err)
			h.drop(draftID, editors, conn)
		}
	}
}

// drop must be called with h.mu held.
func (h *Hub) drop(draftID string, editors map[*websocket.Conn]bool, conn *websocket.Conn) {
	delete(editors, conn)
	conn.Close()
	if len(editors) == 0 {
		delete(h.drafts, draftID)
	}
}
