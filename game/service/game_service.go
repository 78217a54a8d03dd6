package service

import (
	"context"
	"errors"
	"time"
)

// Room-flow failures owned by the service layer.
var (
	ErrNotHost         = errors.New("only the host can start the game")
	ErrPlayersNotReady = errors.New("all players must be ready")
	ErrTooFewPlayers   = errors.New("at least two players are required")
)

// GameService defines every operation the transport can invoke. All
// mutating operations are serialized internally: at most one game action
// is in flight at any time.
type GameService interface {
	// Matchmaking
	FindGame(ctx context.Context, playerID string, profile Profile, size int) error
	CancelSearch(ctx context.Context, playerID string)

	// Room flow
	CreateRoom(ctx context.Context, playerID string, profile Profile) (*SessionView, error)
	JoinRoom(ctx context.Context, playerID, code string, profile Profile) (*SessionView, error)
	ToggleReady(ctx context.Context, playerID string) error
	StartGame(ctx context.Context, playerID string) error
	LeaveRoom(ctx context.Context, playerID string)

	// Turn actions
	PlayCard(ctx context.Context, playerID string, cardID int) error
	DrawCard(ctx context.Context, playerID string) error
	AnnounceUno(ctx context.Context, playerID string) error

	// Reconciliation channel
	FullSync(ctx context.Context, playerID string) (*SessionView, error)
	AckVersion(ctx context.Context, playerID string, version uint64)
	Ping(ctx context.Context, playerID string, clientTimestamp int64) Pong

	// Lifecycle
	HandleDisconnect(ctx context.Context, playerID string)
	Sweep() SweepStats
	Status() ServerStatus
	ListOpenRooms() []RoomSummary
}

// Broadcaster delivers events to connected participants. Implemented by
// the websocket hub; the service never talks to sockets directly.
type Broadcaster interface {
	ToPlayer(playerID, event string, data interface{})
	ToPlayers(playerIDs []string, event string, data interface{})
	IsConnected(playerID string) bool
}

// Config carries the timing knobs. Tests shrink these to keep runs fast.
type Config struct {
	StartCountdown  time.Duration // game-starting → game-started delay
	WinResetDelay   time.Duration // game-ended → lobby reset grace window
	DisconnectGrace time.Duration // sole-connected-player termination window
	IdleTimeout     time.Duration // sweeper eviction threshold
	QueueMaxWait    time.Duration // waiting-queue eviction threshold
}

// DefaultConfig mirrors the windows the client bundle is built against.
func DefaultConfig() Config {
	return Config{
		StartCountdown:  3 * time.Second,
		WinResetDelay:   10 * time.Second,
		DisconnectGrace: 60 * time.Second,
		IdleTimeout:     30 * time.Minute,
		QueueMaxWait:    2 * time.Minute,
	}
}
