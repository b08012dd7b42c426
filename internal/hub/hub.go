package hub

import (
	"context"

	"go.uber.org/zap"

	"dashlink/internal/tilestore"
)

// Hub fans events out between all connected clients. Delivery is
// fire-and-forget: at most once per connected client, no retry, no
// acknowledgment, and a failed or slow recipient never stalls the rest.
type Hub struct {
	logger   *zap.Logger
	store    *tilestore.Store
	reg      *registry
	handlers map[Event]handlerFunc

	register   chan *Client
	unregister chan *Client
	outbound   chan outboundMsg
	done       chan struct{}

	sendBuffer     int
	maxMessageSize int64
}

// outboundMsg is a pre-marshaled envelope headed for one client, or for all
// of them when target is nil.
type outboundMsg struct {
	target *Client
	data   []byte
}

// New creates a Hub backed by the given tile store. sendBuffer is the
// per-client outgoing queue; a client that falls that far behind is dropped.
func New(store *tilestore.Store, sendBuffer int, maxMessageSize int64, logger *zap.Logger) *Hub {
	return &Hub{
		logger:         logger,
		store:          store,
		reg:            newRegistry(),
		handlers:       newHandlerTable(),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		outbound:       make(chan outboundMsg),
		done:           make(chan struct{}),
		sendBuffer:     sendBuffer,
		maxMessageSize: maxMessageSize,
	}
}

// Run owns the registry until ctx is cancelled. All registration and delivery
// happens on this goroutine; everything else talks to it over channels.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, c := range h.reg.snapshot() {
				h.reg.remove(c)
				close(c.send)
			}
			return

		case c := <-h.register:
			h.reg.add(c)
			h.logger.Info("Client connected",
				zap.String("session", c.ID),
				zap.String("role", string(c.Role)),
				zap.Int("clients", h.reg.count()),
			)
			welcome, err := marshalEnvelope(EventMessage, map[string]string{
				"data":    "connected",
				"session": c.ID,
			})
			if err != nil {
				h.logger.Error("Marshal welcome failed", zap.Error(err))
				continue
			}
			h.trySend(c, welcome)

		case c := <-h.unregister:
			if h.reg.remove(c) {
				close(c.send)
				h.logger.Info("Client disconnected",
					zap.String("session", c.ID),
					zap.String("role", string(c.Role)),
					zap.Int("clients", h.reg.count()),
				)
			}

		case msg := <-h.outbound:
			if msg.target != nil {
				if h.reg.contains(msg.target) {
					h.trySend(msg.target, msg.data)
				}
				continue
			}
			for _, c := range h.reg.snapshot() {
				h.trySend(c, msg.data)
			}
		}
	}
}

// trySend queues data for one client without blocking. A full queue means the
// client cannot keep up; it is removed so delivery to everyone else proceeds.
func (h *Hub) trySend(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		if h.reg.remove(c) {
			close(c.send)
			h.logger.Warn("Dropping slow client", zap.String("session", c.ID))
		}
	}
}

// Register announces a new connection to the run loop.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister removes a client after its connection dropped. Safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast delivers the event to every currently connected client,
// including the sender if it is still connected.
func (h *Hub) Broadcast(event Event, data any) {
	env, err := marshalEnvelope(event, data)
	if err != nil {
		h.logger.Error("Marshal broadcast failed", zap.String("event", string(event)), zap.Error(err))
		return
	}
	select {
	case h.outbound <- outboundMsg{data: env}:
	case <-h.done:
	}
}

// EmitTo delivers the event to exactly one client.
func (h *Hub) EmitTo(c *Client, event Event, data any) {
	env, err := marshalEnvelope(event, data)
	if err != nil {
		h.logger.Error("Marshal emit failed", zap.String("event", string(event)), zap.Error(err))
		return
	}
	select {
	case h.outbound <- outboundMsg{target: c, data: env}:
	case <-h.done:
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	return h.reg.count()
}

// RoleCount reports the number of connected clients with the given role.
func (h *Hub) RoleCount(role Role) int {
	return h.reg.countByRole(role)
}
