package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testStore() *Store {
	return NewStore(zap.NewNop())
}

func TestLoadReplacesEverything(t *testing.T) {
	s := testStore()
	s.CreateNode(Block{"name": "old"}, Position{})

	s.Load(
		[]*Node{{Ref: "n1"}, {Ref: "n2"}},
		[]*Edge{{Source: "n1", Target: "n2"}},
	)

	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "n1", nodes[0].Ref)
	assert.Equal(t, "n2", nodes[1].Ref)
	require.Len(t, s.Edges(), 1)
}

func TestCreateNodeIdentity(t *testing.T) {
	s := testStore()

	a := s.CreateNode(Block{"name": "first"}, Position{X: 10, Y: 20})
	b := s.CreateNode(Block{"name": "second"}, Position{})

	require.NotEmpty(t, a.Ref)
	require.NotEmpty(t, b.Ref)
	assert.NotEqual(t, a.Ref, b.Ref)
	assert.Empty(t, a.PersistedID)
	assert.Empty(t, b.PersistedID)

	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, a.Ref, nodes[0].Ref)
	assert.Equal(t, Position{X: 10, Y: 20}, nodes[0].Position)
}

func TestUpdateNode(t *testing.T) {
	s := testStore()
	n := s.CreateNode(Block{"name": "block"}, Position{})

	s.UpdateNode(n.Ref, func(n Node) Node {
		n.Position = Position{X: 5, Y: 7}
		return n
	})

	nodes := s.Nodes()
	assert.Equal(t, Position{X: 5, Y: 7}, nodes[0].Position)

	t.Run("absent ref is a no-op", func(t *testing.T) {
		before := s.Nodes()
		s.UpdateNode("missing", func(n Node) Node {
			n.Position = Position{X: 99}
			return n
		})
		after := s.Nodes()
		require.Len(t, after, 1)
		assert.Same(t, before[0], after[0])
	})
}

func TestPatchPreservesUnmatchedIdentity(t *testing.T) {
	s := testStore()
	s.Load(
		[]*Node{{Ref: "n1", Block: Block{"name": "a"}}, {Ref: "n2", Block: Block{"name": "b"}}},
		[]*Edge{
			{Source: "n0", Target: "n1"},
			{Source: "n1", Target: "n2", SourceHandle: "out"},
		},
	)
	beforeNodes := s.Nodes()
	beforeEdges := s.Edges()

	running := &Status{Phase: StatusRunning}
	s.PatchNodes(
		func(n *Node) bool { return n.Ref == "n1" },
		func(n Node) Node { n.Status = running; return n },
	)
	s.PatchEdges(
		func(e *Edge) bool { return e.Target == "n1" },
		func(e Edge) Edge { e.Status = running; return e },
	)

	afterNodes := s.Nodes()
	afterEdges := s.Edges()

	// Matched elements were replaced, structural fields untouched
	assert.NotSame(t, beforeNodes[0], afterNodes[0])
	assert.Equal(t, "n1", afterNodes[0].Ref)
	assert.Equal(t, Block{"name": "a"}, afterNodes[0].Block)
	assert.Equal(t, StatusRunning, afterNodes[0].Status.Phase)
	assert.Equal(t, "n0", afterEdges[0].Source)

	// Unmatched elements keep their identity
	assert.Same(t, beforeNodes[1], afterNodes[1])
	assert.Same(t, beforeEdges[1], afterEdges[1])
	assert.Nil(t, afterNodes[1].Status)
	assert.Equal(t, "out", afterEdges[1].SourceHandle)
}

func TestSnapshotIsStable(t *testing.T) {
	s := testStore()
	s.Load([]*Node{{Ref: "n1"}}, nil)

	snapshot := s.Nodes()
	s.CreateNode(Block{"name": "late"}, Position{})

	// The earlier snapshot does not grow
	assert.Len(t, snapshot, 1)
	assert.Len(t, s.Nodes(), 2)
}

func TestSelectionDerivation(t *testing.T) {
	s := testStore()
	s.Load([]*Node{{Ref: "n1"}, {Ref: "n2"}, {Ref: "n3"}}, nil)

	_, ok := s.Selected()
	assert.False(t, ok)

	s.SelectNode("n2")
	node, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "n2", node.Ref)

	// Selecting another node clears the previous flag
	s.SelectNode("n3")
	node, ok = s.Selected()
	require.True(t, ok)
	assert.Equal(t, "n3", node.Ref)

	selectedCount := 0
	for _, n := range s.Nodes() {
		if n.Selected {
			selectedCount++
		}
	}
	assert.Equal(t, 1, selectedCount)

	// Empty ref clears the selection
	s.SelectNode("")
	_, ok = s.Selected()
	assert.False(t, ok)
}

func TestCreateEdge(t *testing.T) {
	s := testStore()
	s.Load([]*Node{{Ref: "n1"}, {Ref: "n2"}}, nil)

	edge, err := s.CreateEdge("n1", "out", "n2")
	require.NoError(t, err)
	assert.Equal(t, "n1", edge.Source)
	assert.Equal(t, "out", edge.SourceHandle)
	assert.Empty(t, edge.PersistedID)
	require.Len(t, s.Edges(), 1)

	t.Run("missing endpoint is rejected", func(t *testing.T) {
		_, err := s.CreateEdge("n1", "", "ghost")
		require.Error(t, err)
		_, err = s.CreateEdge("ghost", "", "n2")
		require.Error(t, err)
		assert.Len(t, s.Edges(), 1)
	})
}

func TestDeleteNodeRemovesIncidentEdges(t *testing.T) {
	s := testStore()
	s.Load(
		[]*Node{{Ref: "n1"}, {Ref: "n2"}, {Ref: "n3"}},
		[]*Edge{
			{Source: "n1", Target: "n2"},
			{Source: "n2", Target: "n3"},
			{Source: "n1", Target: "n3"},
		},
	)

	s.DeleteNode("n2")

	require.Len(t, s.Nodes(), 2)
	edges := s.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "n1", edges[0].Source)
	assert.Equal(t, "n3", edges[0].Target)

	// Absent ref is a no-op
	s.DeleteNode("ghost")
	assert.Len(t, s.Nodes(), 2)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []*Node
		edges   []*Edge
		wantErr bool
	}{
		{
			name:  "valid",
			nodes: []*Node{{Ref: "n1"}, {Ref: "n2"}},
			edges: []*Edge{{Source: "n1", Target: "n2"}},
		},
		{
			name:    "duplicate ref",
			nodes:   []*Node{{Ref: "n1"}, {Ref: "n1"}},
			wantErr: true,
		},
		{
			name:    "empty ref",
			nodes:   []*Node{{Ref: ""}},
			wantErr: true,
		},
		{
			name:    "dangling source",
			nodes:   []*Node{{Ref: "n1"}},
			edges:   []*Edge{{Source: "ghost", Target: "n1"}},
			wantErr: true,
		},
		{
			name:    "dangling target",
			nodes:   []*Node{{Ref: "n1"}},
			edges:   []*Edge{{Source: "n1", Target: "ghost"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.nodes, tt.edges)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	zero := 0
	three := 3

	tests := []struct {
		name     string
		status   Status
		terminal bool
	}{
		{"error", Status{Phase: StatusError}, true},
		{"success exhausted", Status{Phase: StatusSuccess, Remaining: &zero}, true},
		{"running with remaining", Status{Phase: StatusRunning, Remaining: &three}, false},
		{"running", Status{Phase: StatusRunning}, false},
		{"success without remaining", Status{Phase: StatusSuccess}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}
