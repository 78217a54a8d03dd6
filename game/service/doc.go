// Package service orchestrates the Jawla game server: it owns the flow
// from inbound player actions through registry lookup, engine mutation,
// validation, and broadcast.
//
// The service package implements:
//   - Open matchmaking (find-game) on top of the FIFO waiting queue
//   - The private room flow (create, join, ready, host start, leave)
//   - Turn actions delegated to the engine with scoped result broadcasts
//   - The reconciliation channel: full resync, version acks, ping
//   - Disconnect handling with a cancellable termination grace window
//   - The periodic lifecycle sweeper
//
// Serialization:
//
// One mutex guards every mutating operation, so sessions are never touched
// by two actions at once. Deferred tasks (countdowns, grace windows)
// re-acquire the lock and re-check their preconditions when they fire.
//
// Privacy:
//
// Every projection handed to a client is participant-scoped: a view
// carries its recipient's hand and only hand counts for everyone else.
package service
