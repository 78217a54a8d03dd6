// Package websocket provides the WebSocket transport for the Jawla game
// server.
//
// The websocket package implements:
//   - Real-time bidirectional communication per participant
//   - Inbound message routing to the game service
//   - Targeted unicast and session-group delivery
//   - Connection lifecycle management with disconnect notification
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// connections. Each connection is handled by a read pump and a write pump
// goroutine; the hub's event loop owns registration and delivery.
//
// Message Protocol:
//
// Frames are JSON-encoded in both directions:
//   - Incoming: {"type": "play-card", "data": {"card_id": 17}}
//   - Outgoing: {"type": "game-state-update", "data": {...}}
//
// Fault Isolation:
//
// Malformed payloads and handler panics are caught at the connection
// boundary, logged, and answered with a unicast error frame. A misbehaving
// connection can never take down the process or another session.
package websocket
