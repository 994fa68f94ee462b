// Package overlay layers transient execution status onto graph elements.
//
// The overlay exclusively owns the status sub-field of nodes and edges and
// never touches structural fields. Status is not persisted; it is set from
// validated status events and cleared either by a scheduled decay (error, or
// an exhausted remaining counter) or by a full graph reload.
package overlay
