package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/ports"
)

// envelope is the wire frame the event stream sends: one named event with a
// raw JSON payload.
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Client implements ports.PushChannel over a raw WebSocket event stream.
// Reconnection and backoff belong to the surrounding layer; when the read
// loop ends the channel is dead and must be redialed.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	handlers map[string][]ports.EventHandler
	mu       sync.RWMutex

	done chan struct{}
	once sync.Once
}

// Dial connects to the workflow's event stream, authenticating with the
// bearer credential, and starts dispatching incoming events.
func Dial(rawURL, token, workflowID string, logger *zap.Logger) (*Client, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	url := fmt.Sprintf("%s/%s", rawURL, workflowID)
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return nil, fmt.Errorf("dial push channel: %w", err)
	}

	c := &Client{
		conn:     conn,
		logger:   logger,
		handlers: make(map[string][]ports.EventHandler),
		done:     make(chan struct{}),
	}

	logger.Info("push channel connected",
		zap.String("url", url),
		zap.String("workflow_id", workflowID))

	go c.readLoop()
	return c, nil
}

// On registers a handler for a named event.
func (c *Client) On(event string, handler ports.EventHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handlers[event] = append(c.handlers[event], handler)
	return nil
}

// Off removes all handlers for a named event.
func (c *Client) Off(event string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.handlers, event)
	return nil
}

// Close tears the connection down and stops the read loop.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// readLoop reads frames until the connection dies. Frames that do not parse
// as an envelope are dropped; schema validation of the payload itself is the
// consumer's concern.
func (c *Client) readLoop() {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Error("push channel read failed", zap.Error(err))
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Debug("dropping unparseable frame", zap.Error(err))
			continue
		}

		c.dispatch(env.Event, env.Payload)
	}
}

func (c *Client) dispatch(event string, payload json.RawMessage) {
	c.mu.RLock()
	handlers := make([]ports.EventHandler, len(c.handlers[event]))
	copy(handlers, c.handlers[event])
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
}
