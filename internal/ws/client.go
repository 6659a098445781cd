package ws

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/goban-go/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket session. playerID is empty until login.
type Client struct {
	hub     *Hub
	handler *Handler
	conn    *websocket.Conn
	send    chan []byte

	playerID model.PlayerID
}

// readPump consumes inbound envelopes until the connection drops, then
// runs the disconnect flow. One goroutine per connection.
func (c *Client) readPump() {
	defer func() {
		c.handler.handleDisconnect(c)
		c.hub.unregister(c)
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("unexpected websocket close", "error", err.Error())
			}
			return
		}
		c.handler.dispatch(c, message)
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings. One goroutine per connection; the only writer to the socket.
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
