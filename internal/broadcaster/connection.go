package broadcaster

import (
	"context"
	"sync"
)

// Connection is the server side of one live client connection. Events are
// queued on a bounded buffer drained by the connection's writer.
type Connection struct {
	Id string

	mu     sync.RWMutex
	send   chan Event
	closed bool
	chefId string
}

func NewConnection(id string, bufferSize int) *Connection {
	return &Connection{
		Id:   id,
		send: make(chan Event, bufferSize),
	}
}

// Outbound is closed once the connection is closed.
func (c *Connection) Outbound() <-chan Event {
	return c.send
}

// ChefId returns the identifier the connection is registered as, or "".
func (c *Connection) ChefId() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.chefId
}

func (c *Connection) setChefId(chefId string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.chefId = chefId
}

// Deliver enqueues the event without blocking. It reports false when the
// connection is closed or its buffer is full.
func (c *Connection) Deliver(event Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

func (c *Connection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.closed
}

// Close is safe to call more than once.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	c.chefId = ""
	close(c.send)
}

type contextKey string

const connectionKey contextKey = "connection"

func WithConnection(ctx context.Context, conn *Connection) context.Context {
	return context.WithValue(ctx, connectionKey, conn)
}

func ConnectionFromContext(ctx context.Context) (*Connection, bool) {
	conn, ok := ctx.Value(connectionKey).(*Connection)

	return conn, ok
}
