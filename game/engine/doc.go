// Package engine owns the mutable state of a Jawla card game session and
// the rules for mutating it.
//
// The engine package implements:
//   - The canonical Session/Player data model
//   - Turn arbitration: play, draw, and announce actions with
//     possession and turn-ownership checks
//   - Directional turn advancement with safe wraparound
//   - Win detection and lobby reset
//   - The state validator/repairer and drift-detection checksum
//
// Scope:
//
// The engine enforces turn ownership and hand membership only. Full card
// legality (color/city matching) belongs to a future rules layer and is
// intentionally not checked here.
//
// Concurrency:
//
// Session carries no locking of its own. The service layer serializes all
// mutation, so at most one action is ever in flight per process; the types
// here assume that discipline.
package engine
