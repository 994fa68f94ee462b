package graph

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/refid"
)

// Store owns the local mutable copy of the workflow graph. Every mutation
// replaces the whole affected collection with a fresh slice; elements that a
// mutation does not touch keep their identity, so concurrent readers always
// observe a fully-formed point-in-time snapshot and unaffected elements
// compare pointer-equal across snapshots.
type Store struct {
	mu     sync.RWMutex
	nodes  []*Node
	edges  []*Edge
	logger *zap.Logger
}

// NodePatch produces the replacement for a matched node. It receives a copy
// and must return the new value; the stored element is never mutated in
// place.
type NodePatch func(n Node) Node

// EdgePatch produces the replacement for a matched edge.
type EdgePatch func(e Edge) Edge

// NewStore creates an empty graph store.
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// Load replaces the entire graph. Used on the initial fetch and on every
// reconciliation; any unsaved local edits are overwritten.
func (s *Store) Load(nodes []*Node, edges []*Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make([]*Node, len(nodes))
	copy(s.nodes, nodes)
	s.edges = make([]*Edge, len(edges))
	copy(s.edges, edges)

	s.logger.Debug("graph loaded",
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)))
}

// CreateNode mints a ref, inserts a new unpersisted node and returns it.
func (s *Store) CreateNode(block Block, pos Position) *Node {
	node := &Node{
		Ref:      refid.New(),
		Position: pos,
		Block:    block,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Node, len(s.nodes), len(s.nodes)+1)
	copy(next, s.nodes)
	s.nodes = append(next, node)

	s.logger.Debug("node created", zap.String("ref", node.Ref))
	return node
}

// CreateEdge inserts a new unpersisted edge. Both endpoints must reference
// existing node refs.
func (s *Store) CreateEdge(source, sourceHandle, target string) (*Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		refs[n.Ref] = true
	}
	if !refs[source] {
		return nil, fmt.Errorf("edge references non-existent source node: %s", source)
	}
	if !refs[target] {
		return nil, fmt.Errorf("edge references non-existent target node: %s", target)
	}

	edge := &Edge{
		Source:       source,
		SourceHandle: sourceHandle,
		Target:       target,
	}

	next := make([]*Edge, len(s.edges), len(s.edges)+1)
	copy(next, s.edges)
	s.edges = append(next, edge)

	s.logger.Debug("edge created",
		zap.String("source", source),
		zap.String("target", target))
	return edge, nil
}

// DeleteNode removes the node with the given ref together with its incident
// edges, keeping edge endpoints valid. No-op if the ref is absent.
func (s *Store) DeleteNode(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nodes := make([]*Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if n.Ref != ref {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == len(s.nodes) {
		return
	}
	s.nodes = nodes

	edges := make([]*Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if e.Source != ref && e.Target != ref {
			edges = append(edges, e)
		}
	}
	s.edges = edges

	s.logger.Debug("node deleted", zap.String("ref", ref))
}

// UpdateNode applies a structural patch to the node with the given ref.
// No-op if the ref is absent.
func (s *Store) UpdateNode(ref string, patch NodePatch) {
	s.PatchNodes(func(n *Node) bool { return n.Ref == ref }, patch)
}

// PatchNodes visits every node exactly once and replaces those satisfying
// match with the patched value. Non-matching nodes keep their identity.
func (s *Store) PatchNodes(match func(n *Node) bool, patch NodePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Node, len(s.nodes))
	for i, n := range s.nodes {
		if match(n) {
			patched := patch(*n)
			next[i] = &patched
		} else {
			next[i] = n
		}
	}
	s.nodes = next
}

// PatchEdges visits every edge exactly once and replaces those satisfying
// match with the patched value. Non-matching edges keep their identity.
func (s *Store) PatchEdges(match func(e *Edge) bool, patch EdgePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]*Edge, len(s.edges))
	for i, e := range s.edges {
		if match(e) {
			patched := patch(*e)
			next[i] = &patched
		} else {
			next[i] = e
		}
	}
	s.edges = next
}

// Nodes returns the current insertion-ordered node snapshot.
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Edges returns the current insertion-ordered edge snapshot.
func (s *Store) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Snapshot returns both collections from the same point in time.
func (s *Store) Snapshot() ([]*Node, []*Edge) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*Node, len(s.nodes))
	copy(nodes, s.nodes)
	edges := make([]*Edge, len(s.edges))
	copy(edges, s.edges)
	return nodes, edges
}
