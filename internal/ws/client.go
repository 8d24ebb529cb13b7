package ws

import (
	"time"

	"matchpairs/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Client is one websocket connection. ID is the transport-assigned
// connection identity the game core uses for turn ownership.
type Client struct {
	ID   string
	Name string

	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

func newClient(id, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		Name: name,
		conn: conn,
		hub:  hub,
		send: make(chan []byte, sendBuffer),
	}
}

// Run starts the pumps and blocks until the connection drops.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("read error", "conn", c.ID, "error", err)
			}
			return
		}
		c.hub.route(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("write error", "conn", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message if the client's buffer is full; a stalled
// reader must not block a room broadcast.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	default:
		logger.Warn("send buffer full, dropping message", "conn", c.ID)
	}
}
