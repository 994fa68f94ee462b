package rest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/nodeboard/flowsync/internal/ports"
)

// Client implements ports.PersistenceAPI against the workflow store's REST
// API. Every request carries the bearer credential and organization scope;
// failures propagate to the caller with no retry at this layer.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// Config holds REST client configuration
type Config struct {
	BaseURL string
	Token   string
	OrgID   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a new persistence API client
func New(cfg *Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetHeader("X-Organization-Id", cfg.OrgID).
		SetTimeout(cfg.Timeout)

	return &Client{
		http:   http,
		logger: cfg.Logger,
	}
}

// Get fetches a workflow by id
func (c *Client) Get(ctx context.Context, id string) (*ports.Workflow, error) {
	var wf ports.Workflow

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&wf).
		Get("/api/v1/workflows/" + id)
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get workflow %s: %s", id, resp.Status())
	}

	c.logger.Debug("workflow fetched",
		zap.String("workflow_id", id),
		zap.Int("nodes", len(wf.Nodes)),
		zap.Int("edges", len(wf.Edges)))

	return &wf, nil
}

// Update replaces a workflow's persisted revision
func (c *Client) Update(ctx context.Context, id string, wf *ports.Workflow) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(wf).
		Put("/api/v1/workflows/" + id)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("update workflow %s: %s", id, resp.Status())
	}

	c.logger.Debug("workflow updated", zap.String("workflow_id", id))
	return nil
}

// Execute triggers a remote workflow run. Fire-and-forget; execution
// progress arrives through the push channel.
func (c *Client) Execute(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post("/api/v1/workflows/" + id + "/execute")
	if err != nil {
		return fmt.Errorf("execute workflow: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("execute workflow %s: %s", id, resp.Status())
	}

	c.logger.Debug("workflow execution requested", zap.String("workflow_id", id))
	return nil
}
