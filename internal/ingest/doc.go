// Package ingest validates and routes push-channel events.
//
// Three event categories are consumed per workflow:
//   - graph:status  -> status overlay
//   - graph:updated -> remote reconciliation
//   - graph:log     -> log sink (timestamp truncated to HH:MM:SS)
//
// Schemas are strict: unknown or missing required fields reject the payload
// and the event is silently dropped. The three categories are independent
// streams; ordering is only guaranteed within a category.
package ingest
