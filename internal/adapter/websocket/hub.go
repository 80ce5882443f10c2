package websocket

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/flood-alert-dashboard/internal/domain"
	"github.com/couchcryptid/flood-alert-dashboard/internal/observability"
)

// MessageTypeMetrics tags a DashboardMetrics push.
const MessageTypeMetrics = "METRICS"

// Message is the envelope written to every client.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub fans snapshot metrics out to connected browsers. All client state is
// owned by the Run goroutine.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	last       *Message

	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(logger *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    metrics,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("websocket hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			h.logger.Info("websocket hub stopped")
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.metrics.WSClients.Set(float64(len(h.clients)))
			h.logger.Debug("websocket client connected", "clients", len(h.clients))
			// New clients get the latest state without waiting for the next refresh.
			if h.last != nil {
				h.offer(c, *h.last)
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case msg := <-h.broadcast:
			h.last = &msg
			for c := range h.clients {
				h.offer(c, msg)
			}
		}
	}
}

// Name identifies the hub in publisher logs and metrics.
func (h *Hub) Name() string { return "websocket" }

// Publish pushes the snapshot metrics to every connected client.
func (h *Hub) Publish(ctx context.Context, snap domain.Snapshot) error {
	return h.Broadcast(ctx, Message{Type: MessageTypeMetrics, Payload: snap.Metrics})
}

// Broadcast hands a message to the hub. It fails only if ctx ends or the hub
// has stopped.
func (h *Hub) Broadcast(ctx context.Context, msg Message) error {
	select {
	case h.broadcast <- msg:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// offer queues msg for c, dropping clients that cannot keep up.
func (h *Hub) offer(c *Client, msg Message) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warn("websocket client too slow, disconnecting")
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.metrics.WSClients.Set(float64(len(h.clients)))
}
