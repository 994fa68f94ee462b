package noop

// Collector implements ports.MetricsCollector with no-ops
// This is for testing purposes only
type Collector struct{}

// NewCollector creates a new no-op metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) RecordEventReceived(category string) {}
func (c *Collector) RecordEventDropped(category string)  {}
func (c *Collector) RecordReload(outcome string)         {}
func (c *Collector) RecordDecayScheduled()               {}
func (c *Collector) RecordDecayFired()                   {}
func (c *Collector) SetGraphSize(nodes, edges int)       {}
