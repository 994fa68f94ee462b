package ports

import "context"

// EventHandler receives the raw payload of a single push-channel event.
// Payloads may arrive as json.RawMessage, []byte, string or an already
// decoded map, depending on the transport.
type EventHandler func(payload any)

// PushChannel is the consumed push-transport contract. The channel's
// lifecycle (connect, reconnect, backoff, authentication) belongs to the
// adapter; the core only registers and deregisters named event handlers.
type PushChannel interface {
	// On registers a handler for a named event. Multiple handlers per
	// event are allowed; delivery order follows registration order.
	On(event string, handler EventHandler) error

	// Off deregisters every handler for a named event.
	Off(event string) error

	// Close tears the channel down. Handlers registered before Close are
	// never invoked afterwards.
	Close() error
}

// PersistenceAPI is the remote workflow store. All calls require the bearer
// credential and organization scope the adapter was constructed with.
// Failures propagate to the caller; no retry happens at this layer.
type PersistenceAPI interface {
	Get(ctx context.Context, id string) (*Workflow, error)
	Update(ctx context.Context, id string, wf *Workflow) error
	Execute(ctx context.Context, id string) error
}

// LogEntry is surfaced to the log sink for each validated workflow log
// event. Date carries only the HH:MM:SS portion of the original timestamp.
type LogEntry struct {
	Date string
	Msg  string
}

// LogSink receives validated workflow log events. Purely a one-way
// notification; a nil sink disables log forwarding.
type LogSink func(entry LogEntry)

// MetricsCollector records synchronization metrics.
type MetricsCollector interface {
	RecordEventReceived(category string)
	RecordEventDropped(category string)
	RecordReload(outcome string)
	RecordDecayScheduled()
	RecordDecayFired()
	SetGraphSize(nodes, edges int)
}
