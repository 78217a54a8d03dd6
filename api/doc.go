// Package api provides the HTTP surface of the Jawla game server.
//
// Endpoints:
//   - GET /status - aggregate counters (sessions, queue depth, uptime)
//   - GET /rooms  - joinable waiting rooms
//   - GET /ws     - WebSocket upgrade; a transient participant ID is
//     minted per connection
//   - /           - static client bundle
//
// All gameplay flows over the WebSocket; the HTTP endpoints exist for
// diagnostics and the lobby listing.
package api
