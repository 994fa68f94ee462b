// Package http provides the local inspection and editing HTTP surface.
//
// The HTTP server exposes endpoints for:
//   - Graph snapshot and selection queries
//   - Structural edits (create node, move, select)
//   - Save and execute triggers
//   - Health checks
//   - Prometheus metrics
package http
