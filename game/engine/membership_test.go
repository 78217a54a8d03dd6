package engine

import (
	"errors"
	"testing"
)

func TestAddPlayer(t *testing.T) {
	s := NewSession("TEST04", 4)

	if err := s.AddPlayer(&Player{ID: "p0", Name: "A"}); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	if s.HostID != "p0" {
		t.Errorf("First joiner should be host, got %q", s.HostID)
	}

	if err := s.AddPlayer(&Player{ID: "p1", Name: "B"}); err != nil {
		t.Fatalf("AddPlayer failed: %v", err)
	}
	if s.HostID != "p0" {
		t.Error("Host changed on second join")
	}
}

func TestAddPlayerDuplicateName(t *testing.T) {
	s := NewSession("TEST05", 4)
	s.AddPlayer(&Player{ID: "p0", Name: "A"})

	err := s.AddPlayer(&Player{ID: "p1", Name: "A"})

	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Expected ErrDuplicateName, got %v", err)
	}
	if len(s.Players) != 1 {
		t.Error("Rejected player was seated anyway")
	}
}

func TestAddPlayerFull(t *testing.T) {
	s := NewSession("TEST06", 2)
	s.AddPlayer(&Player{ID: "p0", Name: "A"})
	s.AddPlayer(&Player{ID: "p1", Name: "B"})

	err := s.AddPlayer(&Player{ID: "p2", Name: "C"})

	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("Expected ErrSessionFull, got %v", err)
	}
}

func TestAddPlayerAfterStart(t *testing.T) {
	s := newPlayingSession(t, 2)

	err := s.AddPlayer(&Player{ID: "late", Name: "Late"})

	if !errors.Is(err, ErrGameStarted) {
		t.Fatalf("Expected ErrGameStarted, got %v", err)
	}
}

func TestRemovePlayerReassignsHost(t *testing.T) {
	s := NewSession("TEST07", 4)
	s.AddPlayer(&Player{ID: "p0", Name: "A"})
	s.AddPlayer(&Player{ID: "p1", Name: "B"})
	s.AddPlayer(&Player{ID: "p2", Name: "C"})

	removed := s.RemovePlayer("p0")

	if removed == nil || removed.ID != "p0" {
		t.Fatal("Host not removed")
	}
	if s.HostID != "p1" {
		t.Errorf("Host should pass to seat 0, got %q", s.HostID)
	}
	if len(s.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(s.Players))
	}
}

func TestRemovePlayerUnknown(t *testing.T) {
	s := NewSession("TEST08", 4)
	s.AddPlayer(&Player{ID: "p0", Name: "A"})
	before := s.Version

	if removed := s.RemovePlayer("ghost"); removed != nil {
		t.Errorf("Expected nil for unknown player, got %v", removed)
	}
	if s.Version != before {
		t.Error("Failed removal mutated version")
	}
}

func TestRemovePlayerDuringGame(t *testing.T) {
	s := newPlayingSession(t, 3)

	s.RemovePlayer("p1")

	// Seating and hands no longer line up, so the game must abort.
	if s.Status != StatusWaiting {
		t.Errorf("Expected session reset to waiting, got %s", s.Status)
	}
	if len(s.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(s.Players))
	}
	for _, p := range s.Players {
		if len(p.Hand) != 0 {
			t.Errorf("Player %s kept a hand across the abort", p.ID)
		}
	}
}

func TestToggleReady(t *testing.T) {
	s := NewSession("TEST09", 4)
	s.AddPlayer(&Player{ID: "p0", Name: "A"})

	if ready := s.ToggleReady("p0"); !ready {
		t.Error("First toggle should set ready")
	}
	if ready := s.ToggleReady("p0"); ready {
		t.Error("Second toggle should clear ready")
	}
	if s.ToggleReady("ghost") {
		t.Error("Unknown player should not report ready")
	}
}

func TestSetOnline(t *testing.T) {
	s := NewSession("TEST10", 4)
	s.AddPlayer(&Player{ID: "p0", Name: "A", Online: true})

	s.SetOnline("p0", false)

	if s.Players[0].Online {
		t.Error("Online flag not cleared")
	}
	if s.OnlineCount() != 0 {
		t.Errorf("Expected 0 online, got %d", s.OnlineCount())
	}
}
