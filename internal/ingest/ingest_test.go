package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/bridge"
	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/overlay"
	"github.com/nodeboard/flowsync/internal/ports"
	"github.com/nodeboard/flowsync/internal/reconcile"
	"github.com/nodeboard/flowsync/pkg/adapters/metrics/noop"
	persistmem "github.com/nodeboard/flowsync/pkg/adapters/persistence/memory"
	pushmem "github.com/nodeboard/flowsync/pkg/adapters/push/memory"
)

type fixture struct {
	store   *graph.Store
	api     *persistmem.InMemoryStore
	channel *pushmem.Channel
	logs    []ports.LogEntry
}

func newFixture(t *testing.T) (*Ingestor, *fixture) {
	t.Helper()

	f := &fixture{
		store:   graph.NewStore(zap.NewNop()),
		api:     persistmem.NewInMemoryStore(),
		channel: pushmem.New(),
	}
	f.store.Load(
		[]*graph.Node{{Ref: "n1"}, {Ref: "n2"}},
		[]*graph.Edge{{Source: "n2", Target: "n1"}},
	)
	f.api.Seed(&ports.Workflow{
		ID:    "wf-1",
		Nodes: []ports.Node{{PersistedID: "p1", Ref: "remote-1"}},
	})

	metrics := noop.NewCollector()
	ov := overlay.New(f.store, 10*time.Millisecond, zap.NewNop(), metrics)

	b := bridge.New(f.api, f.store, zap.NewNop())
	b.Bind("wf-1")
	rec := reconcile.New("actor-self", b, zap.NewNop(), metrics)

	sink := func(entry ports.LogEntry) { f.logs = append(f.logs, entry) }

	ing := New(ov, rec, sink, zap.NewNop(), metrics)
	require.NoError(t, ing.Bind(f.channel))
	ing.SetEnabled(true, true)

	return ing, f
}

func (f *fixture) nodeStatus(ref string) *graph.Status {
	for _, n := range f.store.Nodes() {
		if n.Ref == ref {
			return n.Status
		}
	}
	return nil
}

func TestStatusEventRouted(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventStatus, map[string]any{"nodeId": "n1", "status": "running"})

	st := f.nodeStatus("n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusRunning, st.Phase)

	// The edge feeding n1 is annotated too
	edge := f.store.Edges()[0]
	require.NotNil(t, edge.Status)
	assert.Equal(t, graph.StatusRunning, edge.Status.Phase)
}

func TestStatusEventFromRawJSON(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventStatus, []byte(`{"nodeId":"n1","status":"success","remaining":2}`))

	st := f.nodeStatus("n1")
	require.NotNil(t, st)
	assert.Equal(t, graph.StatusSuccess, st.Phase)
	require.NotNil(t, st.Remaining)
	assert.Equal(t, 2, *st.Remaining)
}

func TestSchemaRejection(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"missing nodeId", map[string]any{"status": "running"}},
		{"status outside enum", map[string]any{"nodeId": "n1", "status": "paused"}},
		{"unknown field", map[string]any{"nodeId": "n1", "status": "running", "extra": true}},
		{"negative remaining", map[string]any{"nodeId": "n1", "status": "running", "remaining": -1}},
		{"not JSON", "{{nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, f := newFixture(t)

			f.channel.Emit(EventStatus, tt.payload)

			// Graph untouched
			assert.Nil(t, f.nodeStatus("n1"))
			assert.Nil(t, f.store.Edges()[0].Status)
		})
	}
}

func TestUpdatedEventReloads(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventUpdated, map[string]any{"actorId": "actor-other"})

	nodes := f.store.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "remote-1", nodes[0].Ref)
}

func TestUpdatedEchoSuppressed(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventUpdated, map[string]any{"actorId": "actor-self"})

	// No reload happened
	assert.Len(t, f.store.Nodes(), 2)
}

func TestUpdatedEventRejectsMissingActor(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventUpdated, map[string]any{})

	assert.Len(t, f.store.Nodes(), 2)
}

func TestLogTruncation(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventLog, map[string]any{
		"date": "2024-01-01T12:34:56.789Z",
		"msg":  "node finished",
	})

	require.Len(t, f.logs, 1)
	assert.Equal(t, "12:34:56", f.logs[0].Date)
	assert.Equal(t, "node finished", f.logs[0].Msg)
}

func TestLogEventRejectsShortDate(t *testing.T) {
	_, f := newFixture(t)

	f.channel.Emit(EventLog, map[string]any{"date": "12:34:56", "msg": "short"})

	assert.Empty(t, f.logs)
}

func TestGateDisablesRouting(t *testing.T) {
	ing, f := newFixture(t)

	ing.SetEnabled(true, false)
	require.False(t, ing.Enabled())

	f.channel.Emit(EventStatus, map[string]any{"nodeId": "n1", "status": "running"})
	f.channel.Emit(EventLog, map[string]any{"date": "2024-01-01T12:34:56Z", "msg": "x"})

	assert.Nil(t, f.nodeStatus("n1"))
	assert.Empty(t, f.logs)

	// Re-enabling resumes routing
	ing.SetEnabled(true, true)
	f.channel.Emit(EventStatus, map[string]any{"nodeId": "n1", "status": "running"})
	assert.NotNil(t, f.nodeStatus("n1"))
}

func TestUnbindStopsDelivery(t *testing.T) {
	ing, f := newFixture(t)

	ing.Unbind()
	f.channel.Emit(EventStatus, map[string]any{"nodeId": "n1", "status": "running"})

	assert.Nil(t, f.nodeStatus("n1"))
}
