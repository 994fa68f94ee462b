package bridge

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/ports"
)

// Bridge translates between the local graph store and the wire shape the
// persistence API accepts. Load, Save and Execute resolve immediately as
// no-ops while no workflow id is bound (new, unsaved workflow); transport
// failures propagate to the caller untouched.
type Bridge struct {
	mu         sync.RWMutex
	workflowID string

	api    ports.PersistenceAPI
	store  *graph.Store
	logger *zap.Logger
}

// New creates a bridge between the store and the persistence API.
func New(api ports.PersistenceAPI, store *graph.Store, logger *zap.Logger) *Bridge {
	return &Bridge{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Bind attaches the bridge to a workflow id. An empty id unbinds.
func (b *Bridge) Bind(workflowID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.workflowID = workflowID
}

// WorkflowID returns the currently bound workflow id, empty when unbound.
func (b *Bridge) WorkflowID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.workflowID
}

// Bound reports whether a workflow id is attached.
func (b *Bridge) Bound() bool {
	return b.WorkflowID() != ""
}

// Load fetches the bound workflow and replaces the entire local graph.
func (b *Bridge) Load(ctx context.Context) error {
	id := b.WorkflowID()
	if id == "" {
		return nil
	}

	wf, err := b.api.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch workflow %s: %w", id, err)
	}

	nodes, edges := fromWire(wf)
	if err := graph.Validate(nodes, edges); err != nil {
		return fmt.Errorf("fetched workflow %s is inconsistent: %w", id, err)
	}
	b.store.Load(nodes, edges)

	b.logger.Info("workflow loaded",
		zap.String("workflow_id", id),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)))
	return nil
}

// Save translates the current snapshot to the wire shape and pushes it to
// the persistence API. Server-assigned persisted ids arrive on the next
// load, not here.
func (b *Bridge) Save(ctx context.Context) error {
	id := b.WorkflowID()
	if id == "" {
		return nil
	}

	nodes, edges := b.store.Snapshot()
	wf := toWire(id, nodes, edges)

	if err := b.api.Update(ctx, id, wf); err != nil {
		return fmt.Errorf("save workflow %s: %w", id, err)
	}

	b.logger.Info("workflow saved",
		zap.String("workflow_id", id),
		zap.Int("nodes", len(wf.Nodes)),
		zap.Int("edges", len(wf.Edges)))
	return nil
}

// Execute fires the remote execution trigger. No local state changes;
// progress arrives through the push channel.
func (b *Bridge) Execute(ctx context.Context) error {
	id := b.WorkflowID()
	if id == "" {
		return nil
	}

	if err := b.api.Execute(ctx, id); err != nil {
		return fmt.Errorf("execute workflow %s: %w", id, err)
	}

	b.logger.Info("workflow execution triggered", zap.String("workflow_id", id))
	return nil
}
