package ws

import (
	"context"
	"errors"
	"sync"

	"github.com/Temutjin2k/fastlane/pkg/logger"
	wrap "github.com/Temutjin2k/fastlane/pkg/logger/wrapper"
	"github.com/Temutjin2k/fastlane/pkg/metrics"
	"github.com/google/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// ConnectionHub keeps one websocket connection per entity.
type ConnectionHub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewConnHub(l logger.Logger) *ConnectionHub {
	return &ConnectionHub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a connection. An existing connection for the same entity is closed and replaced.
func (h *ConnectionHub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "add_ws_connection")

	if existing, ok := h.clients[newConn.entityID]; ok {
		h.l.Warn(ctx, "replacing existing connection", "entity_id", existing.entityID)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "entity_id", existing.entityID, "err", err.Error())
		}
	} else {
		metrics.WebSocketConnectionsGauge.Inc()
	}

	h.clients[newConn.entityID] = newConn
	return nil
}

// Remove drops conn if it is still the registered connection for its entity.
// A connection that was already replaced leaves the newer one in place.
func (h *ConnectionHub) Remove(conn *Conn) {
	if conn == nil {
		return
	}

	h.mu.Lock()
	if cur, ok := h.clients[conn.entityID]; ok && cur == conn {
		delete(h.clients, conn.entityID)
		metrics.WebSocketConnectionsGauge.Dec()
	}
	h.mu.Unlock()

	_ = conn.Close()
}

// Delete closes and removes the connection of an entity.
func (h *ConnectionHub) Delete(entityID uuid.UUID) error {
	h.mu.Lock()
	conn, ok := h.clients[entityID]
	if ok {
		delete(h.clients, entityID)
		metrics.WebSocketConnectionsGauge.Dec()
	}
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(wrap.WithAction(context.Background(), "ws_connection_delete"),
			"failed to close conn",
			"entity_id", entityID,
			"err", err.Error(),
		)
	}
	return nil
}

// SendTo writes v to the connection of an entity.
// Returns ErrConnIsNotFound when nobody is connected.
func (h *ConnectionHub) SendTo(id uuid.UUID, v any) error {
	conn, err := h.GetConn(id)
	if err != nil {
		return err
	}
	return conn.Send(v)
}

// Close closes every connection.
func (h *ConnectionHub) Close() {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		_ = h.Delete(id)
	}

	h.l.Info(wrap.WithAction(context.Background(), "hub_close"), "all websocket connections closed", "count", len(ids))
}

// Len returns the number of connected entities.
func (h *ConnectionHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *ConnectionHub) GetConn(id uuid.UUID) (*Conn, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[id]
	if !ok {
		return nil, ErrConnIsNotFound
	}
	return conn, nil
}
