package session

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"time"

	"jawla/game/engine"
)

// Registry-level failures. Like the turn errors these are participant-local
// and recoverable.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadyInSession = errors.New("player already belongs to a session")
)

const (
	codeLength = 6
	codeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry maps join codes to live sessions. It is the only owner of the
// code→session mapping; components receive it explicitly rather than
// reaching for package globals.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*engine.Session),
	}
}

// Create registers a new waiting session under a freshly generated,
// collision-checked join code.
func (r *Registry) Create(maxPlayers int) *engine.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := r.generateCodeLocked()
	s := engine.NewSession(code, maxPlayers)
	r.sessions[code] = s
	return s
}

// Get retrieves a session by join code.
func (r *Registry) Get(code string) (*engine.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// FindByParticipant returns the session containing the given player, or
// ErrSessionNotFound when the player is in no session.
func (r *Registry) FindByParticipant(playerID string) (*engine.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.Player(playerID) != nil {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Remove drops a session from the registry.
func (r *Registry) Remove(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, code)
}

// List returns all registered sessions.
func (r *Registry) List() []*engine.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*engine.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}
	return result
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// RemoveExpired evicts sessions that are empty or whose last activity is
// older than maxIdle, returning the join codes that were removed so the
// caller can cancel any pending scheduled tasks for them.
func (r *Registry) RemoveExpired(maxIdle time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	var removed []string
	for code, s := range r.sessions {
		if len(s.Players) == 0 || s.LastActivity.Before(cutoff) {
			delete(r.sessions, code)
			removed = append(removed, code)
		}
	}
	return removed
}

// generateCodeLocked mints a 6-character A-Z0-9 join code, retrying until
// it does not collide with a live session. Caller holds the write lock.
func (r *Registry) generateCodeLocked() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
			if err != nil {
				// crypto/rand only fails when the platform source is
				// broken; fall back to a fixed character rather than
				// crashing session creation.
				buf[i] = codeChars[0]
				continue
			}
			buf[i] = codeChars[n.Int64()]
		}
		code := string(buf)
		if _, exists := r.sessions[code]; !exists {
			return code
		}
	}
}
