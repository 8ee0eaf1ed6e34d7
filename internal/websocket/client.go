package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// Client is one live feed connection following a single chat.
type Client struct {
	ID     string
	ChatID int64
	Conn   *websocket.Conn
	Send   chan []byte

	writeMu sync.Mutex
	// left is owned by Hub.mu
	left bool
}

func NewClient(conn *websocket.Conn, chatID int64) *Client {
	return &Client{
		ID:     uuid.New().String(),
		ChatID: chatID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// WriteLoop drains Send onto the connection and keeps it alive with pings.
// It closes the connection when Send is closed, a write fails or ctx ends.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.writeFrame(websocket.CloseMessage, nil)
				return
			}
			if err := c.writeFrame(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writeFrame(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeFrame(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// ReadLoop discards inbound frames, the feed is one-way. It returns when the peer goes away.
func (c *Client) ReadLoop() {
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// SendMessage queues msg without blocking; a slow reader loses events.
func (c *Client) SendMessage(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}
