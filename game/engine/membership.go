package engine

import "errors"

var (
	ErrSessionFull   = errors.New("session is full")
	ErrDuplicateName = errors.New("name already taken in this session")
	ErrGameStarted   = errors.New("game already started in this session")
)

// AddPlayer seats a new participant. The first player to join becomes the
// host. Joining is only possible while the session is waiting.
func (s *Session) AddPlayer(p *Player) error {
	if s.Status != StatusWaiting {
		return ErrGameStarted
	}
	if len(s.Players) >= s.MaxPlayers {
		return ErrSessionFull
	}
	for _, existing := range s.Players {
		if existing.Name == p.Name {
			return ErrDuplicateName
		}
	}
	s.Players = append(s.Players, p)
	if s.HostID == "" {
		s.HostID = p.ID
	}
	s.touch()
	return nil
}

// RemovePlayer unseats a participant. Host duty passes to the player at
// seat 0; a running game is aborted back to the lobby because seating and
// hands no longer line up. Returns the removed player, or nil when the ID
// was not a member.
func (s *Session) RemovePlayer(id string) *Player {
	idx := s.Seat(id)
	if idx < 0 {
		return nil
	}
	removed := s.Players[idx]
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	if s.HostID == id && len(s.Players) > 0 {
		s.HostID = s.Players[0].ID
	}
	if s.Status == StatusPlaying {
		s.ResetToLobby()
		return removed
	}
	if s.CurrentPlayerIndex >= len(s.Players) {
		s.CurrentPlayerIndex = 0
	}
	s.touch()
	return removed
}

// ToggleReady flips the participant's ready flag.
func (s *Session) ToggleReady(id string) bool {
	p := s.Player(id)
	if p == nil {
		return false
	}
	p.Ready = !p.Ready
	s.touch()
	return p.Ready
}

// SetOnline flips the participant's connectivity flag.
func (s *Session) SetOnline(id string, online bool) {
	p := s.Player(id)
	if p == nil {
		return
	}
	p.Online = online
	s.touch()
}
