package engine

import (
	"time"

	"jawla/game/deck"
)

// Status tracks where a session is in its lifecycle.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

const (
	// HandSize is the number of cards dealt to each player at game start.
	HandSize = 7

	// MaxPlayers is the hard cap on session membership.
	MaxPlayers = 4

	// MinPlayers is the minimum required to start a game.
	MinPlayers = 2
)

// Player is the single canonical participant record. The hand is mutated
// only by the owner's plays and draws; seating order is the player's
// position in the session's Players slice.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Icon      string      `json:"icon"`
	Color     string      `json:"color"`
	Hand      []deck.Card `json:"hand"`
	Announced bool        `json:"announced"`
	Ready     bool        `json:"ready"`
	Online    bool        `json:"online"`
}

// HandCount returns the number of cards the player holds.
func (p *Player) HandCount() int {
	return len(p.Hand)
}

// Session is the authoritative record for one room/game. All mutation goes
// through the service layer, which serializes access; Session itself does
// no locking.
type Session struct {
	Code               string      `json:"code"`
	Status             Status      `json:"status"`
	HostID             string      `json:"host_id"`
	Players            []*Player   `json:"players"`
	Deck               []deck.Card `json:"deck"`
	CurrentCard        *deck.Card  `json:"current_card"`
	CurrentPlayerIndex int         `json:"current_player_index"`
	Direction          int         `json:"direction"`
	DrawPileCount      int         `json:"draw_pile_count"`
	MaxPlayers         int         `json:"max_players"`
	Version            uint64      `json:"version"`
	Checksum           string      `json:"checksum"`
	WinnerID           string      `json:"winner_id,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	LastActivity       time.Time   `json:"last_activity"`
	LastSync           time.Time   `json:"last_sync,omitempty"`
}

// NewSession creates an empty waiting session with the given join code.
func NewSession(code string, maxPlayers int) *Session {
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		maxPlayers = MaxPlayers
	}
	now := time.Now()
	return &Session{
		Code:         code,
		Status:       StatusWaiting,
		Players:      []*Player{},
		Direction:    1,
		MaxPlayers:   maxPlayers,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// Player returns the member with the given ID, or nil.
func (s *Session) Player(id string) *Player {
	for _, p := range s.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// Seat returns the seating index of the given player, or -1.
func (s *Session) Seat(id string) int {
	for i, p := range s.Players {
		if p != nil && p.ID == id {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player whose turn it is, or nil when the
// index is out of range.
func (s *Session) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return s.Players[s.CurrentPlayerIndex]
}

// OnlineCount returns how many members still have a live connection.
func (s *Session) OnlineCount() int {
	n := 0
	for _, p := range s.Players {
		if p != nil && p.Online {
			n++
		}
	}
	return n
}

// CardCount returns the total number of cards across the deck, all hands,
// and the discard slot. Constant for the life of a dealt game.
func (s *Session) CardCount() int {
	n := len(s.Deck)
	for _, p := range s.Players {
		if p != nil {
			n += len(p.Hand)
		}
	}
	if s.CurrentCard != nil {
		n++
	}
	return n
}

// touch records a committed mutation: the version counter moves strictly
// forward and the activity timestamp refreshes.
func (s *Session) touch() {
	s.Version++
	s.LastActivity = time.Now()
}
