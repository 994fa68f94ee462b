package socketio

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/ports"
)

// Client implements ports.PushChannel over socket.io, the native channel of
// the remote editor service. The socket.io manager owns reconnection; this
// adapter only registers and deregisters named event handlers.
type Client struct {
	manager *socket.Manager
	io      *socket.Socket
	logger  *zap.Logger
}

// Dial connects to the workflow's socket.io namespace, authenticating with
// the bearer credential.
func Dial(rawURL, namespace, token, workflowID string, logger *zap.Logger) (*Client, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	opts.SetExtraHeaders(header)

	// The workflow id rides along as a query parameter so the server can
	// scope the subscription.
	query := url.Values{}
	query.Set("workflowId", workflowID)
	opts.SetQuery(query)

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(namespace, opts)

	c := &Client{
		manager: manager,
		io:      io,
		logger:  logger,
	}

	io.On(types.EventName("connect"), func(...any) {
		logger.Info("push channel connected",
			zap.String("namespace", namespace),
			zap.String("workflow_id", workflowID),
			zap.Any("sid", io.Id()))
	})

	io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("push channel connect error", zap.Any("error", errs))
	})

	io.Connect()
	return c, nil
}

// On registers a handler for a named event. Socket.io hands the payload
// over as the first argument, already decoded.
func (c *Client) On(event string, handler ports.EventHandler) error {
	c.io.On(types.EventName(event), func(data ...any) {
		var payload any
		if len(data) > 0 {
			payload = data[0]
		}
		handler(payload)
	})
	return nil
}

// Off removes all handlers for a named event.
func (c *Client) Off(event string) error {
	c.io.RemoveAllListeners(types.EventName(event))
	return nil
}

// Close disconnects the socket.
func (c *Client) Close() error {
	c.logger.Debug("disconnecting push channel")
	c.io.Disconnect()
	return nil
}
