package websocket

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBuffer = 256
)

// Message types exchanged with the log viewer.
const (
	MessageLog      = "LOG"
	MessagePong     = "PONG"
	MessageSetLevel = "SET_LEVEL"
	MessagePing     = "PING"
)

// ServerMessage is one frame sent to the viewer.
type ServerMessage struct {
	Type  string         `json:"type"`
	Entry *logging.Entry `json:"entry,omitempty"`
}

// ClientMessage is the structure for messages sent from the viewer.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SetLevelPayload narrows the stream to entries at or above Level.
type SetLevelPayload struct {
	Level string `json:"level"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound entries.
	Send chan logging.Entry

	// Subject of the bearer token, when auth is enabled.
	Subject string

	backlog  []logging.Entry
	minLevel atomic.Int64
	pong     chan struct{}

	// closeOnce ensures the Send channel is only closed once
	closeOnce sync.Once

	logger *slog.Logger
}

// NewClient creates a client that first replays backlog and then follows
// the hub.
func NewClient(hub *Hub, conn *websocket.Conn, subject string, backlog []logging.Entry, minLevel slog.Level, logger *slog.Logger) *Client {
	c := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan logging.Entry, sendBuffer),
		Subject: subject,
		backlog: backlog,
		pong:    make(chan struct{}, 1),
		logger:  logger.With("component", "log_stream_client", "subject", subject),
	}
	c.SetMinLevel(minLevel)
	return c
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// SetMinLevel changes the lowest level forwarded to this client.
func (c *Client) SetMinLevel(level slog.Level) {
	c.minLevel.Store(int64(level))
}

// Wants reports whether e passes the client's level filter.
func (c *Client) Wants(e logging.Entry) bool {
	level, ok := ParseLevel(e.Level)
	if !ok {
		return true
	}
	return int64(level) >= c.minLevel.Load()
}

// ParseLevel accepts slog level names in any case.
func ParseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, false
	}
	return level, true
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Detach(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump replays the backlog, then pumps entries from the hub to the
// websocket connection. This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for i := range c.backlog {
		if !c.Wants(c.backlog[i]) {
			continue
		}
		if err := c.write(ServerMessage{Type: MessageLog, Entry: &c.backlog[i]}); err != nil {
			c.logger.Debug("failed to replay backlog", "error", err)
			return
		}
	}
	c.backlog = nil

	for {
		select {
		case entry, ok := <-c.Send:
			if !ok {
				// The hub closed the channel. Send close message.
				_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.write(ServerMessage{Type: MessageLog, Entry: &entry}); err != nil {
				c.logger.Debug("failed to write entry", "error", err)
				return
			}

		case <-c.pong:
			if err := c.write(ServerMessage{Type: MessagePong}); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (c *Client) write(msg ServerMessage) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// handleIncomingMessage processes messages received from the viewer
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Debug("failed to unmarshal client message", "error", err)
		return
	}

	switch strings.ToUpper(msg.Type) {
	case MessageSetLevel:
		var p SetLevelPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.logger.Debug("failed to unmarshal level payload", "error", err)
			return
		}
		if level, ok := ParseLevel(p.Level); ok {
			c.SetMinLevel(level)
		}

	case MessagePing:
		select {
		case c.pong <- struct{}{}:
		default:
		}

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}
