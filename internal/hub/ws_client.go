package hub

import (
	"log"
	"sync"
	"time"

	"grievance/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements Client over a gorilla websocket connection.
type WebSocketClient struct {
	UserID       string
	Role         models.Role
	DepartmentID string
	Conn         *websocket.Conn
	Hub          *ManagerService
	Send         chan models.Envelope

	closeOnce sync.Once
}

// NewWebSocketClient wraps an upgraded connection for the given user.
func NewWebSocketClient(h *ManagerService, conn *websocket.Conn, user models.Actor, buffer int) *WebSocketClient {
	c := &WebSocketClient{
		UserID: user.ID,
		Role:   user.Role,
		Conn:   conn,
		Hub:    h,
		Send:   make(chan models.Envelope, buffer),
	}
	// Only officers are joined to department groups.
	if user.Role == models.RoleOfficer && user.HasDepartment() {
		c.DepartmentID = *user.DepartmentID
	}
	return c
}

func (c *WebSocketClient) GetUserID() string                      { return c.UserID }
func (c *WebSocketClient) GetRole() models.Role                   { return c.Role }
func (c *WebSocketClient) GetDepartmentID() string                { return c.DepartmentID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Envelope { return c.Send }

func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump and with it the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump only keeps the connection alive. Subscribers do not send commands.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from subscriber %s: %v", c.UserID, err)
			}
			return
		}
	}
}

// writePump writes envelopes from Send to the socket, one JSON message each.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(env); err != nil {
				log.Printf("Error writing envelope to subscriber %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
