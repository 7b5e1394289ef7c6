package ws

import (
	"BobaLink/pkg/push"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades requests and installs connections into the push registry.
type Handler struct {
	Reg *push.Registry
}

// Serve upgrades the request and installs the connection as the user's live
// notification channel. Registering replaces any previous channel for the
// same user; the displaced transport is closed here, not by the registry.
func (h *Handler) Serve(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}
	userIDInt64 := userID.(int64)
	ch := &push.WSChannel{Conn: conn}
	if old := h.Reg.Register(userIDInt64, ch); old != nil {
		_ = old.Close()
	}

	h.Reg.Send(userIDInt64, 2*time.Second, push.ClientMessage{
		Kind:    push.KindSystem,
		Payload: "Connected to notification stream",
	})

	go func() {
		for {
			// we never expect client frames; the read loop exists to detect
			// disconnects and drain control frames
			if _, _, err := conn.ReadMessage(); err != nil {
				h.Reg.UnregisterChannel(userIDInt64, ch)
				conn.Close()
				break
			}
		}
	}()
}
