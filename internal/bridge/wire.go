package bridge

import (
	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/ports"
)

// toWire translates the local snapshot to the persisted shape. Transient
// fields (status, selection) are never emitted.
func toWire(id string, nodes []*graph.Node, edges []*graph.Edge) *ports.Workflow {
	wf := &ports.Workflow{
		ID:    id,
		Nodes: make([]ports.Node, 0, len(nodes)),
		Edges: make([]ports.Edge, 0, len(edges)),
	}

	for _, n := range nodes {
		wf.Nodes = append(wf.Nodes, ports.Node{
			PersistedID: n.PersistedID,
			Ref:         n.Ref,
			PosX:        n.Position.X,
			PosY:        n.Position.Y,
			Block:       n.Block,
		})
	}

	for _, e := range edges {
		wf.Edges = append(wf.Edges, ports.Edge{
			PersistedID:  e.PersistedID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
		})
	}

	return wf
}

// fromWire translates a fetched workflow into local graph elements.
func fromWire(wf *ports.Workflow) ([]*graph.Node, []*graph.Edge) {
	nodes := make([]*graph.Node, 0, len(wf.Nodes))
	for _, n := range wf.Nodes {
		nodes = append(nodes, &graph.Node{
			PersistedID: n.PersistedID,
			Ref:         n.Ref,
			Position:    graph.Position{X: n.PosX, Y: n.PosY},
			Block:       graph.Block(n.Block),
		})
	}

	edges := make([]*graph.Edge, 0, len(wf.Edges))
	for _, e := range wf.Edges {
		edges = append(edges, &graph.Edge{
			PersistedID:  e.PersistedID,
			Source:       e.Source,
			SourceHandle: e.SourceHandle,
			Target:       e.Target,
		})
	}

	return nodes, edges
}
