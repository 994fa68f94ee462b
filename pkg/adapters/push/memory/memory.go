package memory

import (
	"sync"

	"github.com/nodeboard/flowsync/internal/ports"
)

// Channel implements ports.PushChannel with in-process delivery
// This is for testing purposes only
type Channel struct {
	handlers map[string][]ports.EventHandler
	closed   bool
	mu       sync.RWMutex
}

// New creates a new in-memory push channel
func New() *Channel {
	return &Channel{
		handlers: make(map[string][]ports.EventHandler),
	}
}

// On registers a handler for a named event
func (c *Channel) On(event string, handler ports.EventHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = append(c.handlers[event], handler)
	return nil
}

// Off removes all handlers for a named event
func (c *Channel) Off(event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.handlers, event)
	return nil
}

// Emit delivers a payload to every handler of an event, synchronously and
// in registration order. Synchronous delivery preserves per-category
// arrival order the way a real channel does.
func (c *Channel) Emit(event string, payload any) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	handlers := make([]ports.EventHandler, len(c.handlers[event]))
	copy(handlers, c.handlers[event])
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}

// Close drops all handlers and stops further delivery
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.handlers = make(map[string][]ports.EventHandler)
	return nil
}
