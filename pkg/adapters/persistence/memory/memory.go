package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/nodeboard/flowsync/internal/ports"
)

// InMemoryStore implements ports.PersistenceAPI using an in-memory map
// This is for testing purposes only
type InMemoryStore struct {
	workflows map[string]*ports.Workflow
	executed  map[string]int
	mu        sync.RWMutex
}

// NewInMemoryStore creates a new in-memory persistence store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		workflows: make(map[string]*ports.Workflow),
		executed:  make(map[string]int),
	}
}

// Get retrieves a workflow by id
func (s *InMemoryStore) Get(ctx context.Context, id string) (*ports.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow not found: %s", id)
	}

	return copyWorkflow(wf), nil
}

// Update stores a workflow revision, assigning persisted ids to elements
// that do not carry one yet, the way the real store does on first save
func (s *InMemoryStore) Update(ctx context.Context, id string, wf *ports.Workflow) error {
	stored := copyWorkflow(wf)
	stored.ID = id

	for i := range stored.Nodes {
		if stored.Nodes[i].PersistedID == "" {
			stored.Nodes[i].PersistedID = uuid.New().String()
		}
	}
	for i := range stored.Edges {
		if stored.Edges[i].PersistedID == "" {
			stored.Edges[i].PersistedID = uuid.New().String()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows[id] = stored
	return nil
}

// Execute records an execution trigger
func (s *InMemoryStore) Execute(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[id]; !ok {
		return fmt.Errorf("workflow not found: %s", id)
	}

	s.executed[id]++
	return nil
}

// Executions returns how many times a workflow was triggered
func (s *InMemoryStore) Executions(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.executed[id]
}

// Seed installs a workflow directly, bypassing id assignment
func (s *InMemoryStore) Seed(wf *ports.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.workflows[wf.ID] = copyWorkflow(wf)
}

// copyWorkflow deep-copies a workflow to avoid mutations leaking across the
// store boundary
func copyWorkflow(wf *ports.Workflow) *ports.Workflow {
	out := &ports.Workflow{
		ID:    wf.ID,
		Nodes: make([]ports.Node, len(wf.Nodes)),
		Edges: make([]ports.Edge, len(wf.Edges)),
	}
	copy(out.Nodes, wf.Nodes)
	copy(out.Edges, wf.Edges)

	for i, n := range wf.Nodes {
		if n.Block != nil {
			block := make(map[string]any, len(n.Block))
			for k, v := range n.Block {
				block[k] = v
			}
			out.Nodes[i].Block = block
		}
	}

	return out
}
