package client

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devaloi/hypechat/internal/domain"
	"github.com/devaloi/hypechat/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a WebSocket client watching one conversation.
type Client struct {
	hub      *hub.Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	endpoint domain.Endpoint
	log      *slog.Logger
}

// New creates a new Client. sendBuffer bounds the outbound queue.
func New(h *hub.Hub, conn *websocket.Conn, username string, endpoint domain.Endpoint, sendBuffer int, log *slog.Logger) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		username: username,
		endpoint: endpoint,
		log:      log.With("user", username, "endpoint", endpoint.ID),
	}
}

// Username returns the client's username.
func (c *Client) Username() string {
	return c.username
}

// Send queues a message to be sent to the WebSocket client.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		c.log.Warn("send buffer full, dropping message")
	}
}

// ReadPump reads commands from the WebSocket connection and applies them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unwatch(c, c.endpoint.ID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("read error", "error", err)
			}
			return
		}
		c.handleCommand(data)
	}
}

// WritePump writes messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

func (c *Client) handleCommand(data []byte) {
	cmd, err := domain.DecodeCommand(data)
	if err != nil {
		c.sendError("invalid JSON")
		return
	}

	switch cmd.Type {
	case domain.CmdSend:
		if cmd.Text == "" {
			c.sendError("text required")
			return
		}
		msg := domain.NewMessage(c.username, cmd.Text)
		if err := c.hub.Deliver(c.endpoint, msg, false); err != nil {
			c.sendError(err.Error())
		}

	case domain.CmdRead:
		if err := c.hub.MarkRead(c.endpoint.ID); err != nil && !errors.Is(err, hub.ErrConversationNotFound) {
			c.sendError(err.Error())
		}

	default:
		c.sendError("unknown command type: " + cmd.Type)
	}
}

func (c *Client) sendError(message string) {
	ev := domain.ErrorEvent{Type: domain.EvtError, Message: message}
	if data, err := domain.Encode(ev); err == nil {
		c.Send(data)
	}
}
