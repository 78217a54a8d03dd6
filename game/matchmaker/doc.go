// Package matchmaker queues waiting participants and forms sessions from
// them in strict FIFO order.
//
// Participants enqueue with a desired session size (2 or 4). A match forms
// as soon as that many currently-connected participants with the same
// desired size are waiting; participants whose transport has dropped are
// skipped, and partial groups keep waiting. The queue itself does not
// create sessions; the service layer consumes matched tickets and builds
// the session.
package matchmaker
