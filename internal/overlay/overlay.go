package overlay

import (
	"time"

	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/ports"
)

// DefaultDecayDelay is how long a terminal status stays visible before it is
// cleared.
const DefaultDecayDelay = 1000 * time.Millisecond

// Overlay annotates graph elements with transient execution status. Per
// element the status walks idle -> running -> success|error -> idle; the
// return to idle happens through a scheduled decay, so the terminal state is
// observable before clearing.
type Overlay struct {
	store   *graph.Store
	delay   time.Duration
	logger  *zap.Logger
	metrics ports.MetricsCollector
}

// New creates an overlay over the given store. A non-positive delay falls
// back to DefaultDecayDelay.
func New(store *graph.Store, delay time.Duration, logger *zap.Logger, metrics ports.MetricsCollector) *Overlay {
	if delay <= 0 {
		delay = DefaultDecayDelay
	}
	return &Overlay{
		store:   store,
		delay:   delay,
		logger:  logger,
		metrics: metrics,
	}
}

// Apply sets the status on the node with the given ref and on every edge
// targeting it (the connection currently delivering into that node). When
// the status is terminal a decay is scheduled that clears the same filtered
// set after the delay.
//
// Decay timers are independent and fire-and-forget: a later status for the
// same node does not cancel an already scheduled clear, and the clear
// applies against whatever snapshot is current when the timer fires. A timer
// can therefore wipe a status set by a newer event inside the decay window.
func (o *Overlay) Apply(nodeRef string, status graph.Status) {
	o.mark(nodeRef, &status)

	o.logger.Debug("status applied",
		zap.String("node_ref", nodeRef),
		zap.String("phase", string(status.Phase)))

	if !status.Terminal() {
		return
	}

	o.metrics.RecordDecayScheduled()
	time.AfterFunc(o.delay, func() {
		o.mark(nodeRef, nil)
		o.metrics.RecordDecayFired()
		o.logger.Debug("status decayed", zap.String("node_ref", nodeRef))
	})
}

// Clear drops every status annotation. Structural fields are untouched.
func (o *Overlay) Clear() {
	o.store.PatchNodes(
		func(n *graph.Node) bool { return n.Status != nil },
		func(n graph.Node) graph.Node {
			n.Status = nil
			return n
		},
	)
	o.store.PatchEdges(
		func(e *graph.Edge) bool { return e.Status != nil },
		func(e graph.Edge) graph.Edge {
			e.Status = nil
			return e
		},
	)
}

// mark writes (or clears, when status is nil) the status on the node with
// the given ref and on every edge whose target is that ref. Each element
// gets its own status copy.
func (o *Overlay) mark(nodeRef string, status *graph.Status) {
	o.store.PatchNodes(
		func(n *graph.Node) bool { return n.Ref == nodeRef },
		func(n graph.Node) graph.Node {
			n.Status = cloneStatus(status)
			return n
		},
	)
	o.store.PatchEdges(
		func(e *graph.Edge) bool { return e.Target == nodeRef },
		func(e graph.Edge) graph.Edge {
			e.Status = cloneStatus(status)
			return e
		},
	)
}

func cloneStatus(status *graph.Status) *graph.Status {
	if status == nil {
		return nil
	}
	out := *status
	if status.Remaining != nil {
		remaining := *status.Remaining
		out.Remaining = &remaining
	}
	return &out
}
