package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/marcosaraujo-dev/RelatorioProjetos/internal/infrastructure/logging"
)

// Hub fans log entries from a RingBuffer out to connected viewers.
type Hub struct {
	ring *logging.RingBuffer
	done chan struct{}

	clients map[*Client]struct{}

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients map
	mu sync.RWMutex

	logger *slog.Logger
}

// NewHub creates a hub reading from ring.
func NewHub(ring *logging.RingBuffer, logger *slog.Logger) *Hub {
	return &Hub{
		ring:       ring,
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "log_stream_hub"),
	}
}

// Backlog returns the entries a new viewer starts with.
func (h *Hub) Backlog() []logging.Entry {
	return h.ring.Entries()
}

// Run starts the hub's event loop until ctx is done. This MUST be run as
// a goroutine.
func (h *Hub) Run(ctx context.Context) {
	entries, cancel := h.ring.Subscribe(sendBuffer)
	defer func() {
		cancel()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case entry, ok := <-entries:
			if !ok {
				h.closeAll()
				return
			}
			h.broadcastEntry(entry)
		}
	}
}

// Attach hands client to the running hub. It returns false once the hub
// has stopped.
func (h *Hub) Attach(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Detach removes client from the hub, if it is still running.
func (h *Hub) Detach(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("log viewer connected", "subject", client.Subject, "total_connections", total)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, exists := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if !exists {
		return
	}
	client.CloseSend()
	h.logger.Info("log viewer disconnected", "subject", client.Subject)
}

// broadcastEntry forwards entry to every interested client. Clients whose
// buffer is full are dropped.
func (h *Hub) broadcastEntry(entry logging.Entry) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.Wants(entry) {
			continue
		}
		select {
		case client.Send <- entry:
		default:
			h.logger.Warn("log viewer too slow, disconnecting", "subject", client.Subject)
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for client := range clients {
		client.CloseSend()
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
