package overlay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/pkg/adapters/metrics/noop"
)

const testDecay = 20 * time.Millisecond

func testOverlay(t *testing.T) (*Overlay, *graph.Store) {
	t.Helper()
	store := graph.NewStore(zap.NewNop())
	store.Load(
		[]*graph.Node{{Ref: "n1"}, {Ref: "n2"}},
		[]*graph.Edge{
			{Source: "n0", Target: "n1"},
			{Source: "n1", Target: "n2"},
		},
	)
	return New(store, testDecay, zap.NewNop(), noop.NewCollector()), store
}

func nodeStatus(t *testing.T, store *graph.Store, ref string) *graph.Status {
	t.Helper()
	for _, n := range store.Nodes() {
		if n.Ref == ref {
			return n.Status
		}
	}
	t.Fatalf("node %s not found", ref)
	return nil
}

func TestApplyPropagatesToNodeAndFeedingEdge(t *testing.T) {
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusRunning})

	st := nodeStatus(t, store, "n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusRunning, st.Phase)

	edges := store.Edges()
	require.NotNil(t, edges[0].Status)
	assert.Equal(t, graph.StatusRunning, edges[0].Status.Phase)

	// Nothing else is annotated
	assert.Nil(t, nodeStatus(t, store, "n2"))
	assert.Nil(t, edges[1].Status)
}

func TestDecayOnError(t *testing.T) {
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusError})

	// Terminal state is observable before clearing
	st := nodeStatus(t, store, "n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusError, st.Phase)

	time.Sleep(4 * testDecay)

	assert.Nil(t, nodeStatus(t, store, "n1"))
	assert.Nil(t, store.Edges()[0].Status)
}

func TestDecayOnExhaustion(t *testing.T) {
	zero := 0
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusSuccess, Remaining: &zero})

	st := nodeStatus(t, store, "n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusSuccess, st.Phase)

	time.Sleep(4 * testDecay)
	assert.Nil(t, nodeStatus(t, store, "n1"))
}

func TestNoDecayWhileRemaining(t *testing.T) {
	three := 3
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusRunning, Remaining: &three})

	time.Sleep(4 * testDecay)

	st := nodeStatus(t, store, "n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusRunning, st.Phase)
}

// TestStaleDecayClearsNewerStatus pins the accepted race: decay timers are
// never cancelled, so a timer scheduled by an earlier terminal event clears
// a status set by a later event inside the decay window.
func TestStaleDecayClearsNewerStatus(t *testing.T) {
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusError})
	ov.Apply("n1", graph.Status{Phase: graph.StatusRunning})

	st := nodeStatus(t, store, "n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusRunning, st.Phase)

	time.Sleep(4 * testDecay)

	// The stale timer wiped the newer running status
	assert.Nil(t, nodeStatus(t, store, "n1"))
}

func TestClearOnlyDropsStatus(t *testing.T) {
	ov, store := testOverlay(t)

	ov.Apply("n1", graph.Status{Phase: graph.StatusRunning})
	ov.Clear()

	for _, n := range store.Nodes() {
		assert.Nil(t, n.Status)
	}
	edges := store.Edges()
	assert.Nil(t, edges[0].Status)
	assert.Equal(t, "n0", edges[0].Source)
	assert.Equal(t, "n1", edges[0].Target)
}

func TestStructuralIsolation(t *testing.T) {
	store := graph.NewStore(zap.NewNop())
	store.Load(
		[]*graph.Node{
			{Ref: "n1", PersistedID: "p1", Position: graph.Position{X: 1, Y: 2}, Block: graph.Block{"name": "a"}},
			{Ref: "n2", PersistedID: "p2", Block: graph.Block{"name": "b"}},
		},
		[]*graph.Edge{
			{PersistedID: "e1", Source: "n0", SourceHandle: "out", Target: "n1"},
		},
	)
	ov := New(store, testDecay, zap.NewNop(), noop.NewCollector())

	ov.Apply("n1", graph.Status{Phase: graph.StatusSuccess})

	nodes := store.Nodes()
	assert.Equal(t, "p1", nodes[0].PersistedID)
	assert.Equal(t, graph.Position{X: 1, Y: 2}, nodes[0].Position)
	assert.Equal(t, graph.Block{"name": "a"}, nodes[0].Block)
	assert.Equal(t, "p2", nodes[1].PersistedID)
	assert.Nil(t, nodes[1].Status)

	edge := store.Edges()[0]
	assert.Equal(t, "e1", edge.PersistedID)
	assert.Equal(t, "n0", edge.Source)
	assert.Equal(t, "out", edge.SourceHandle)
	assert.Equal(t, "n1", edge.Target)
}
