package service

import (
	"time"

	"jawla/game/deck"
	"jawla/game/engine"
)

// Outbound event names. Payload shapes are the contract; names mirror what
// the client bundle listens for.
const (
	EventGameFound          = "game-found"
	EventRoomCreated        = "room-created"
	EventRoomJoined         = "room-joined"
	EventRoomUpdated        = "room-updated"
	EventGameStarting       = "game-starting"
	EventGameStarted        = "game-started"
	EventGameStateUpdate    = "game-state-update"
	EventTurnUpdate         = "turn-update"
	EventPlayerDrew         = "player-drew"
	EventPlayerAnnounced    = "player-announced"
	EventPlayerLeft         = "player-left"
	EventPlayerDisconnected = "player-disconnected"
	EventGameEnded          = "game-ended"
	EventFullStateSync      = "full-state-sync"
	EventSearchCancelled    = "search-cancelled"
	EventPong               = "pong"
	EventServerStatus       = "server-status"
)

// Profile is the client-supplied identity for a participant.
type Profile struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// PlayerView is the public projection of a player: everything except the
// hand itself. Other participants only ever see the card count.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Seat      int    `json:"seat"`
	HandCount int    `json:"hand_count"`
	Announced bool   `json:"announced"`
	Ready     bool   `json:"ready"`
	Online    bool   `json:"online"`
}

// SessionView is the participant-scoped projection of a session. YourHand
// carries only the requesting participant's cards; no view ever contains
// another participant's hand.
type SessionView struct {
	Code               string       `json:"code"`
	Status             engine.Status `json:"status"`
	HostID             string       `json:"host_id"`
	Players            []PlayerView `json:"players"`
	CurrentCard        *deck.Card   `json:"current_card"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	Direction          int          `json:"direction"`
	DrawPileCount      int          `json:"draw_pile_count"`
	Version            uint64       `json:"version"`
	Checksum           string       `json:"checksum"`
	WinnerID           string       `json:"winner_id,omitempty"`
	YourSeat           int          `json:"your_seat"`
	YourHand           []deck.Card  `json:"your_hand"`
}

// RoomSummary describes a joinable room for the lobby listing.
type RoomSummary struct {
	Code       string `json:"code"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players"`
	Host       string `json:"host"`
}

// Pong answers a client ping. Latency is informational only; nothing on
// the server decides anything based on it.
type Pong struct {
	ServerTime int64 `json:"server_time"`
	LatencyMs  int64 `json:"latency_ms"`
}

// SweepStats summarizes one sweeper pass.
type SweepStats struct {
	Repaired      int `json:"repaired"`
	Evicted       int `json:"evicted"`
	PrunedTickets int `json:"pruned_tickets"`
}

// ServerStatus is the periodic heartbeat payload and the /status body.
type ServerStatus struct {
	Sessions      int       `json:"sessions"`
	Playing       int       `json:"playing"`
	QueueDepth    int       `json:"queue_depth"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	Timestamp     time.Time `json:"timestamp"`
}

// TurnUpdate announces whose turn it is after a committed play.
type TurnUpdate struct {
	Code               string `json:"code"`
	CurrentPlayerIndex int    `json:"current_player_index"`
	Direction          int    `json:"direction"`
	Version            uint64 `json:"version"`
}

// DrewNotice announces a completed draw without revealing the card.
type DrewNotice struct {
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	HandCount     int    `json:"hand_count"`
	DrawPileCount int    `json:"draw_pile_count"`
	Version       uint64 `json:"version"`
}

// GameEndedNotice carries the outcome of a finished game.
type GameEndedNotice struct {
	Code       string `json:"code"`
	WinnerID   string `json:"winner_id,omitempty"`
	WinnerName string `json:"winner_name,omitempty"`
	Reason     string `json:"reason"` // "win" or "abandoned"
}

// FoundNotice tells a matched participant where to go.
type FoundNotice struct {
	Code     string `json:"code"`
	YourSeat int    `json:"your_seat"`
}
