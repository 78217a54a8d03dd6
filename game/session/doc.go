// Package session provides session registry and scheduling support for the
// Jawla game server.
//
// The session package implements:
//   - Thread-safe session storage keyed by join code
//   - Collision-checked 6-character join code generation
//   - Lookup by join code or by participant
//   - Eviction of empty and idle sessions
//   - Cancellable deferred tasks for grace windows and countdowns
//   - A best-effort shutdown dump of in-memory state
//
// Concurrency:
//
// The registry is safe for concurrent use; internal locking guards the
// code→session map. The sessions it hands out are mutated only by the
// service layer, which serializes all game actions.
package session
