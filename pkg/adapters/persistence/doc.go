// Package persistence provides persistence API implementations.
//
// Implementations:
//   - rest: the remote workflow store's REST API, bearer + org scoped
//   - memory: In-memory for testing, simulating server-side id assignment
package persistence
