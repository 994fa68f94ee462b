package reconcile

import (
	"context"

	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/bridge"
	"github.com/nodeboard/flowsync/internal/ports"
)

// Reconciler decides, on a remote change notification, whether to discard
// the local graph and refetch. The policy is last-writer-wins at whole-graph
// granularity: no merge, no diff, no user warning. Notifications stamped
// with our own actor id are echoes of our own saves and are ignored.
type Reconciler struct {
	actorID string
	bridge  *bridge.Bridge
	logger  *zap.Logger
	metrics ports.MetricsCollector
}

// New creates a reconciler for the given local actor id.
func New(actorID string, b *bridge.Bridge, logger *zap.Logger, metrics ports.MetricsCollector) *Reconciler {
	return &Reconciler{
		actorID: actorID,
		bridge:  b,
		logger:  logger,
		metrics: metrics,
	}
}

// HandleUpdated processes a validated remote change notification. A reload
// replaces the entire local workflow; unsaved local edits are overwritten.
func (r *Reconciler) HandleUpdated(ctx context.Context, actorID string) {
	if actorID == r.actorID {
		r.metrics.RecordReload("suppressed")
		r.logger.Debug("remote update is own echo, skipping reload",
			zap.String("actor_id", actorID))
		return
	}

	r.logger.Info("remote actor changed the workflow, reloading",
		zap.String("actor_id", actorID))

	if err := r.bridge.Load(ctx); err != nil {
		r.metrics.RecordReload("failed")
		r.logger.Error("reload after remote update failed", zap.Error(err))
		return
	}

	r.metrics.RecordReload("reloaded")
}
