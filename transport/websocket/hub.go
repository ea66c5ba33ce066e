package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

type connection struct {
	id     string
	socket *websocket.Conn
	send   chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// close - reports whether this call was the one that closed the connection.
func (that *connection) close() bool {
	closed := false
	that.closeOnce.Do(func() {
		close(that.done)
		closed = true
	})

	return closed
}

// Hub - live connections keyed by connection id. Each connection owns a bounded
// outbound queue drained by its own writer, so Emit never waits on a socket.
type Hub struct {
	logger       *slog.Logger
	queueSize    int
	writeTimeout time.Duration

	mu          sync.RWMutex
	connections map[string]*connection
}

func NewHub(logger *slog.Logger, queueSize int, writeTimeout time.Duration) *Hub {
	return &Hub{
		logger:       logger.With("component", "websocket-hub"),
		queueSize:    queueSize,
		writeTimeout: writeTimeout,
		connections:  make(map[string]*connection),
	}
}

// Emit - queues one event for the connection. A full queue evicts the connection,
// so a live peer never misses an event of its room.
func (that *Hub) Emit(connID, action string, payload any) {
	log := that.logger.With("method", "Emit", "connID", connID, "action", action)

	message := Message{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error("failed to marshal payload", "error", err)
			return
		}

		message.Payload = raw
	}

	frame, err := json.Marshal(message)
	if err != nil {
		log.Error("failed to marshal message", "error", err)
		return
	}

	that.mu.RLock()
	conn, ok := that.connections[connID]
	that.mu.RUnlock()

	if !ok {
		log.Debug("connection is gone, event dropped")
		return
	}

	select {
	case <-conn.done:
	case conn.send <- frame:
	default:
		log.Warn("outbound queue is full, closing connection")
		that.evict(conn)
	}
}

// evict - stops the writer and closes the socket off the caller's goroutine; Emit may hold a room lock.
// The read loop of the connection then fails and runs the disconnect path.
func (that *Hub) evict(conn *connection) {
	if !conn.close() || conn.socket == nil {
		return
	}

	go func() {
		_ = conn.socket.Close(websocket.StatusPolicyViolation, "send queue overflow")
	}()
}

func (that *Hub) register(connID string, socket *websocket.Conn) *connection {
	conn := &connection{
		id:     connID,
		socket: socket,
		send:   make(chan []byte, that.queueSize),
		done:   make(chan struct{}),
	}

	that.mu.Lock()
	that.connections[connID] = conn
	that.mu.Unlock()

	return conn
}

func (that *Hub) unregister(connID string) {
	that.mu.Lock()
	conn, ok := that.connections[connID]
	delete(that.connections, connID)
	that.mu.Unlock()

	if ok {
		conn.close()
	}
}

// writeLoop - drains the queue of one connection until it is closed.
func (that *Hub) writeLoop(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "writeLoop", "connID", conn.id)

	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.done:
			return
		case frame := <-conn.send:
			writeCtx, cancel := context.WithTimeout(ctx, that.writeTimeout)
			err := conn.socket.Write(writeCtx, websocket.MessageText, frame)
			cancel()

			if err != nil {
				log.Warn("failed to write message", "error", err)
				_ = conn.socket.Close(websocket.StatusInternalError, "write failed")
				return
			}
		}
	}
}

// CloseAll - closes every socket; their read loops then run the disconnect path.
func (that *Hub) CloseAll() {
	that.mu.RLock()
	sockets := make([]*websocket.Conn, 0, len(that.connections))
	for _, conn := range that.connections {
		sockets = append(sockets, conn.socket)
	}
	that.mu.RUnlock()

	for _, socket := range sockets {
		_ = socket.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (that *Hub) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.connections)
}
