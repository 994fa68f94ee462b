package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements ports.MetricsCollector using Prometheus
type Collector struct {
	eventsReceived *prometheus.CounterVec
	eventsDropped  *prometheus.CounterVec
	reloads        *prometheus.CounterVec
	decayScheduled prometheus.Counter
	decayFired     prometheus.Counter
	graphNodes     prometheus.Gauge
	graphEdges     prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		eventsReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsync_events_received_total",
				Help: "Total number of push channel events received",
			},
			[]string{"category"},
		),
		eventsDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsync_events_dropped_total",
				Help: "Total number of events dropped on schema violation",
			},
			[]string{"category"},
		),
		reloads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flowsync_reloads_total",
				Help: "Total number of reconciliation decisions",
			},
			[]string{"outcome"},
		),
		decayScheduled: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flowsync_status_decay_scheduled_total",
				Help: "Total number of status decay timers scheduled",
			},
		),
		decayFired: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "flowsync_status_decay_fired_total",
				Help: "Total number of status decay timers fired",
			},
		),
		graphNodes: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowsync_graph_nodes",
				Help: "Current number of nodes in the local graph",
			},
		),
		graphEdges: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "flowsync_graph_edges",
				Help: "Current number of edges in the local graph",
			},
		),
	}
}

// RecordEventReceived records a received push channel event
func (c *Collector) RecordEventReceived(category string) {
	c.eventsReceived.WithLabelValues(category).Inc()
}

// RecordEventDropped records an event dropped on schema violation
func (c *Collector) RecordEventDropped(category string) {
	c.eventsDropped.WithLabelValues(category).Inc()
}

// RecordReload records a reconciliation decision outcome
func (c *Collector) RecordReload(outcome string) {
	c.reloads.WithLabelValues(outcome).Inc()
}

// RecordDecayScheduled records a scheduled status decay timer
func (c *Collector) RecordDecayScheduled() {
	c.decayScheduled.Inc()
}

// RecordDecayFired records a fired status decay timer
func (c *Collector) RecordDecayFired() {
	c.decayFired.Inc()
}

// SetGraphSize records the current local graph size
func (c *Collector) SetGraphSize(nodes, edges int) {
	c.graphNodes.Set(float64(nodes))
	c.graphEdges.Set(float64(edges))
}
