package ingest

import (
	"context"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/graph"
	"github.com/nodeboard/flowsync/internal/overlay"
	"github.com/nodeboard/flowsync/internal/ports"
	"github.com/nodeboard/flowsync/internal/reconcile"
)

// Ingestor validates inbound push-channel payloads against their schemas and
// routes them: status events to the overlay, update notifications to the
// reconciler, log lines to the log sink. Payloads failing validation are
// dropped without error; a malformed message is local and non-fatal.
//
// Routing only happens while the gate is enabled. The gate is recomputed
// from upstream state via SetEnabled; handlers registered on the channel
// stay in place but become no-ops while disabled.
type Ingestor struct {
	overlay    *overlay.Overlay
	reconciler *reconcile.Reconciler
	sink       ports.LogSink
	logger     *zap.Logger
	metrics    ports.MetricsCollector

	validate *validator.Validate
	enabled  atomic.Bool
	channel  ports.PushChannel
}

// New creates an ingestor. The sink may be nil; log events are then
// validated and discarded.
func New(
	ov *overlay.Overlay,
	rec *reconcile.Reconciler,
	sink ports.LogSink,
	logger *zap.Logger,
	metrics ports.MetricsCollector,
) *Ingestor {
	return &Ingestor{
		overlay:    ov,
		reconciler: rec,
		sink:       sink,
		logger:     logger,
		metrics:    metrics,
		validate:   validator.New(),
	}
}

// SetEnabled recomputes the routing gate: events flow only while a workflow
// id and an authenticated session both exist.
func (i *Ingestor) SetEnabled(workflowBound, sessionPresent bool) {
	enabled := workflowBound && sessionPresent
	if i.enabled.Swap(enabled) != enabled {
		i.logger.Info("event routing gate changed", zap.Bool("enabled", enabled))
	}
}

// Enabled reports the current gate state.
func (i *Ingestor) Enabled() bool {
	return i.enabled.Load()
}

// Bind registers the three event handlers on the channel. The channel's
// connection lifecycle stays with the adapter.
func (i *Ingestor) Bind(ch ports.PushChannel) error {
	if err := ch.On(EventStatus, i.handleStatus); err != nil {
		return err
	}
	if err := ch.On(EventUpdated, i.handleUpdated); err != nil {
		return err
	}
	if err := ch.On(EventLog, i.handleLog); err != nil {
		return err
	}

	i.channel = ch
	i.logger.Info("subscribed to workflow events")
	return nil
}

// Unbind deregisters the handlers. Decay timers already scheduled are
// allowed to fire; stopping them is best-effort cleanup only.
func (i *Ingestor) Unbind() {
	if i.channel == nil {
		return
	}
	for _, event := range []string{EventStatus, EventUpdated, EventLog} {
		if err := i.channel.Off(event); err != nil {
			i.logger.Warn("failed to deregister handler",
				zap.String("event", event), zap.Error(err))
		}
	}
	i.channel = nil
}

func (i *Ingestor) handleStatus(payload any) {
	if !i.enabled.Load() {
		return
	}
	i.metrics.RecordEventReceived(EventStatus)

	var ev StatusEvent
	if err := i.reject(EventStatus, payload, &ev); err != nil {
		return
	}

	i.overlay.Apply(ev.NodeID, graph.Status{
		Phase:     graph.StatusPhase(ev.Status),
		Remaining: ev.Remaining,
	})
}

func (i *Ingestor) handleUpdated(payload any) {
	if !i.enabled.Load() {
		return
	}
	i.metrics.RecordEventReceived(EventUpdated)

	var ev UpdatedEvent
	if err := i.reject(EventUpdated, payload, &ev); err != nil {
		return
	}

	i.reconciler.HandleUpdated(context.Background(), ev.ActorID)
}

func (i *Ingestor) handleLog(payload any) {
	if !i.enabled.Load() {
		return
	}
	i.metrics.RecordEventReceived(EventLog)

	var ev LogEvent
	if err := i.reject(EventLog, payload, &ev); err != nil {
		return
	}

	if i.sink == nil {
		return
	}

	// "2024-01-01T12:34:56..." -> "12:34:56"
	i.sink(ports.LogEntry{
		Date: ev.Date[11:19],
		Msg:  ev.Msg,
	})
}

// reject decodes and validates a payload, recording and logging the drop on
// failure. The returned error only signals the caller to stop.
func (i *Ingestor) reject(event string, payload any, out any) error {
	if err := decode(payload, out); err != nil {
		i.drop(event, err)
		return err
	}
	if err := i.validate.Struct(out); err != nil {
		i.drop(event, err)
		return err
	}
	return nil
}

func (i *Ingestor) drop(event string, err error) {
	i.metrics.RecordEventDropped(event)
	i.logger.Debug("dropping event with invalid payload",
		zap.String("event", event),
		zap.Error(err))
}
