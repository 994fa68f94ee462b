// Package ports defines the contracts between the synchronization core and
// its external collaborators.
//
// Contracts:
//   - PushChannel: named-event subscription over whatever transport the
//     deployment uses (socket.io, raw WebSocket, Redis Streams)
//   - PersistenceAPI: the remote workflow store (load/save/execute)
//   - LogSink: outward notification of validated workflow log events
//   - MetricsCollector: synchronization metrics
package ports
