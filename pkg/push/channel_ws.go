package push

import (
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteDeadline = 10 * time.Second

// WSChannel adapts a gorilla websocket connection to the Channel interface.
type WSChannel struct {
	Conn *websocket.Conn
}

func (c *WSChannel) WriteJSON(v interface{}) error {
	c.Conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
	return c.Conn.WriteJSON(v)
}

func (c *WSChannel) Close() error {
	return c.Conn.Close()
}
