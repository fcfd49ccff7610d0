package handlers

import (
	"log"
	"net/http"

	"smartgrader-composer/internal/services"
	"smartgrader-composer/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub          *ws.Hub
	draftService *services.DraftService
}

func NewWSHandler(hub *ws.Hub, draftService *services.DraftService) *WSHandler {
	return &WSHandler{hub: hub, draftService: draftService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket connection for draft updates
// @Description  Pushes {"type":"state"} after every change and {"type":"toast"} notifications. The current state is sent on connect.
// @Tags         websocket
// @Param        id path string true "Draft ID"
// @Param        token query string true "Draft token"
// @Router       /ws/drafts/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	draftID := c.Param("id")
	view, err := h.draftService.View(c.Request.Context(), draftID)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	if err := conn.WriteJSON(ws.WSMessage{Type: ws.MessageState, Data: view}); err != nil {
		conn.Close()
		return
	}
	h.hub.AddConnection(draftID, conn)
	defer h.hub.RemoveConnection(draftID, conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
