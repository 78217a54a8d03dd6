package matchmaker

import (
	"errors"
	"sync"
	"time"
)

var ErrAlreadyQueued = errors.New("player is already searching for a game")

// Ticket is one waiting participant.
type Ticket struct {
	PlayerID   string
	Name       string
	Icon       string
	Color      string
	Size       int // desired session size, 2 or 4
	EnqueuedAt time.Time
}

// ConnectivityProbe reports whether a participant's transport is still
// live. A participant whose connection has dropped is never matched.
type ConnectivityProbe func(playerID string) bool

// Queue is the FIFO waiting line for open matchmaking. Match composition
// is strictly arrival-ordered among eligible participants; there is no
// priority and no skill matching.
type Queue struct {
	mu      sync.Mutex
	tickets []*Ticket
	probe   ConnectivityProbe
}

// NewQueue creates an empty queue using probe to test liveness. A nil
// probe treats every ticket as connected.
func NewQueue(probe ConnectivityProbe) *Queue {
	if probe == nil {
		probe = func(string) bool { return true }
	}
	return &Queue{probe: probe}
}

// Enqueue appends a ticket. Rejects a second ticket for the same player.
// Membership in an active session is the service's check, not the queue's.
func (q *Queue) Enqueue(t *Ticket) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, existing := range q.tickets {
		if existing.PlayerID == t.PlayerID {
			return ErrAlreadyQueued
		}
	}
	if t.Size != 2 && t.Size != 4 {
		t.Size = 2
	}
	if t.EnqueuedAt.IsZero() {
		t.EnqueuedAt = time.Now()
	}
	q.tickets = append(q.tickets, t)
	return nil
}

// TryMatch removes and returns the first `size` connected tickets asking
// for that session size, in FIFO order. Returns nil when not enough
// eligible participants are waiting; partial groups stay queued.
func (q *Queue) TryMatch(size int) []*Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	eligible := make([]*Ticket, 0, size)
	for _, t := range q.tickets {
		if t.Size == size && q.probe(t.PlayerID) {
			eligible = append(eligible, t)
			if len(eligible) == size {
				break
			}
		}
	}
	if len(eligible) < size {
		return nil
	}

	matched := make(map[string]bool, size)
	for _, t := range eligible {
		matched[t.PlayerID] = true
	}
	remaining := q.tickets[:0]
	for _, t := range q.tickets {
		if !matched[t.PlayerID] {
			remaining = append(remaining, t)
		}
	}
	q.tickets = remaining
	return eligible
}

// Cancel removes the player's ticket if present. No-op otherwise.
func (q *Queue) Cancel(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.tickets {
		if t.PlayerID == playerID {
			q.tickets = append(q.tickets[:i], q.tickets[i+1:]...)
			return true
		}
	}
	return false
}

// PruneStale evicts tickets whose connection is gone or whose wait exceeds
// maxWait, returning the evicted tickets so their owners can be notified.
// A non-positive maxWait disables the age check (open queues may wait
// indefinitely).
func (q *Queue) PruneStale(maxWait time.Duration) []*Ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	var evicted []*Ticket
	var kept []*Ticket
	now := time.Now()
	for _, t := range q.tickets {
		dead := !q.probe(t.PlayerID)
		expired := maxWait > 0 && now.Sub(t.EnqueuedAt) > maxWait
		if dead || expired {
			evicted = append(evicted, t)
			continue
		}
		kept = append(kept, t)
	}
	q.tickets = kept
	return evicted
}

// Len returns the number of waiting tickets.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tickets)
}
