package engine

import (
	"jawla/game/deck"
)

// Start deals the session into the playing state: each player receives
// HandSize cards, the first city card in the remaining pile is flipped as
// the opening current card, and turn order begins at seat 0 moving forward.
// The caller is responsible for the pre-start checks (host, ready flags,
// player count); Start assumes they already passed.
func (s *Session) Start(cards []deck.Card) {
	s.Deck = cards
	for _, p := range s.Players {
		p.Hand = make([]deck.Card, HandSize)
		copy(p.Hand, s.Deck[:HandSize])
		s.Deck = s.Deck[HandSize:]
		p.Announced = false
	}

	// The opening card must be a city card; specials stay buried in the pile.
	for i, c := range s.Deck {
		if c.IsCity() {
			card := c
			s.CurrentCard = &card
			s.Deck = append(s.Deck[:i], s.Deck[i+1:]...)
			break
		}
	}

	s.Status = StatusPlaying
	s.CurrentPlayerIndex = 0
	s.Direction = 1
	s.DrawPileCount = len(s.Deck)
	s.WinnerID = ""
	s.touch()
}

// PlayCard moves the identified card from the actor's hand to the discard
// slot. Preconditions are checked in order and the first failure wins:
// the session must be playing, the actor must hold the turn, and the card
// must be in the actor's hand. Card legality (color/city matching) is
// deliberately not checked here; possession and turn ownership are the
// engine's whole contract.
//
// A play that empties the actor's hand ends the game with the actor as
// winner. Otherwise the turn advances one step in the current direction.
func (s *Session) PlayCard(actorID string, cardID int) error {
	if s.Status != StatusPlaying {
		return ErrNoActiveSession
	}
	actor := s.Player(actorID)
	if actor == nil {
		return ErrNotInSession
	}
	if current := s.CurrentPlayer(); current == nil || current.ID != actorID {
		return ErrNotYourTurn
	}

	idx := -1
	for i, c := range actor.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrInvalidCard
	}

	card := actor.Hand[idx]
	actor.Hand = append(actor.Hand[:idx], actor.Hand[idx+1:]...)

	// The replaced discard slides under the draw pile so no card ever
	// leaves circulation; draws come off the other end.
	if s.CurrentCard != nil {
		s.Deck = append([]deck.Card{*s.CurrentCard}, s.Deck...)
		s.DrawPileCount = len(s.Deck)
	}
	s.CurrentCard = &card

	if len(actor.Hand) == 0 {
		s.Status = StatusEnded
		s.WinnerID = actor.ID
		s.touch()
		return nil
	}

	s.advanceTurn()
	s.touch()
	return nil
}

// DrawCard pops one card from the pile into the actor's hand. Drawing is a
// sub-action: it does not consume the turn. That matches the behavior every
// client is built against, so it stays.
func (s *Session) DrawCard(actorID string) error {
	if s.Status != StatusPlaying {
		return ErrNoActiveSession
	}
	actor := s.Player(actorID)
	if actor == nil {
		return ErrNotInSession
	}
	if current := s.CurrentPlayer(); current == nil || current.ID != actorID {
		return ErrNotYourTurn
	}
	if len(s.Deck) == 0 {
		return ErrDeckEmpty
	}

	card := s.Deck[len(s.Deck)-1]
	s.Deck = s.Deck[:len(s.Deck)-1]
	actor.Hand = append(actor.Hand, card)
	s.DrawPileCount = len(s.Deck)
	s.touch()
	return nil
}

// AnnounceUno sets the actor's announced flag. Allowed only at exactly two
// cards in hand; there are no turn semantics.
func (s *Session) AnnounceUno(actorID string) error {
	if s.Status != StatusPlaying {
		return ErrNoActiveSession
	}
	actor := s.Player(actorID)
	if actor == nil {
		return ErrNotInSession
	}
	if len(actor.Hand) != 2 {
		return ErrCannotAnnounce
	}
	actor.Announced = true
	s.touch()
	return nil
}

// advanceTurn steps the current index by the direction, wrapping modulo the
// player count. The player count is added before the modulo so a negative
// direction can never produce a negative index.
func (s *Session) advanceTurn() {
	n := len(s.Players)
	if n == 0 {
		s.CurrentPlayerIndex = 0
		return
	}
	s.CurrentPlayerIndex = (s.CurrentPlayerIndex + s.Direction + n) % n
}

// ResetToLobby clears the played game but keeps the players seated. Used
// after the win grace window and when a game is aborted by a departure.
func (s *Session) ResetToLobby() {
	s.Status = StatusWaiting
	s.Deck = nil
	s.CurrentCard = nil
	s.CurrentPlayerIndex = 0
	s.Direction = 1
	s.DrawPileCount = 0
	s.WinnerID = ""
	for _, p := range s.Players {
		p.Hand = nil
		p.Ready = false
		p.Announced = false
	}
	s.touch()
}
