package engine

import "errors"

// Turn-level failures. All are participant-local and recoverable: they are
// reported back to the acting connection only and never mutate state.
var (
	ErrNoActiveSession = errors.New("no active game in this session")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrInvalidCard     = errors.New("card is not in your hand")
	ErrDeckEmpty       = errors.New("draw pile is empty")
	ErrCannotAnnounce  = errors.New("announce is only allowed with exactly two cards")
	ErrNotInSession    = errors.New("player is not in this session")
)
