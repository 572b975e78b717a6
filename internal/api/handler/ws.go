package handler

import (
	"log"
	"net/http"

	"grievance/backend/internal/api/middleware"
	"grievance/backend/internal/config"
	"grievance/backend/internal/hub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS policy and the token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws?token=...
func (h *Handler) ServeWebSocket(c *gin.Context) {
	if h.Hub == nil || !h.Hub.Ready() {
		fail(c, http.StatusServiceUnavailable, "realtime channel not ready")
		return
	}
	actor := middleware.ActorFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Printf("WARN: websocket upgrade failed for %s: %v", actor.ID, err)
		return
	}

	client := hub.NewWebSocketClient(h.Hub, conn, actor, config.SubscriberBuffer)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
