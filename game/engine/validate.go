package engine

import (
	"strconv"
	"time"

	"jawla/game/deck"
)

// ValidateAndFix restores the session invariants in place. It is run after
// reconnects, by every sweeper pass, and before any full resync, so it must
// be safe to call at any time: every step applies unconditionally and the
// whole pass is idempotent apart from the version bump and checksum (a
// validation pass counts as an observable mutation even when nothing was
// broken). The activity timestamp is deliberately left alone: a sweep is
// not player activity, and refreshing it would keep idle sessions alive
// forever.
//
// Structural anomalies found here are never surfaced to clients; they are
// silently repaired before any state is shown.
//
// Returns false only when there is no session to repair.
func ValidateAndFix(s *Session) bool {
	if s == nil {
		return false
	}

	// Drop slots that no longer hold a player and make hands non-nil.
	// Matching sub-state (hand, announced flag) survives by identity
	// because the player record itself is the canonical store.
	players := s.Players[:0]
	for _, p := range s.Players {
		if p == nil {
			continue
		}
		if p.Hand == nil {
			p.Hand = []deck.Card{}
		}
		players = append(players, p)
	}
	s.Players = players

	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		s.CurrentPlayerIndex = 0
	}

	if s.Direction != 1 && s.Direction != -1 {
		s.Direction = 1
	}

	if s.Status != StatusWaiting && s.Status != StatusPlaying && s.Status != StatusEnded {
		s.Status = StatusWaiting
	}
	s.DrawPileCount = len(s.Deck)

	s.Version++
	s.Checksum = checksum(s)
	return true
}

// checksum is a cheap order-sensitive rolling hash over the observable
// state, used only to detect drift between a client's last-known version
// and the server's. The timestamp suffix keeps checksums distinct across
// versions; this is a debug aid, not an integrity proof.
func checksum(s *Session) string {
	var h uint64
	mix := func(str string) {
		for i := 0; i < len(str); i++ {
			h = h*31 + uint64(str[i])
		}
	}
	for _, p := range s.Players {
		mix(p.ID)
		mix(p.Name)
	}
	if s.CurrentCard != nil {
		h = h*31 + uint64(s.CurrentCard.ID)
	}
	h = h*31 + s.Version
	h = h*31 + uint64(s.CurrentPlayerIndex)
	return strconv.FormatUint(h, 36) + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
