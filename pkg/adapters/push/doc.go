// Package push provides push channel implementations.
//
// Implementations:
//   - socketio: socket.io client, the remote editor service's native channel
//   - websocket: raw WebSocket with JSON event envelopes
//   - redis: Redis Streams with consumer groups
//   - memory: In-memory for testing
package push
