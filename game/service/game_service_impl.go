package service

import (
	"context"
	"log"
	"sync"
	"time"

	"jawla/game/deck"
	"jawla/game/engine"
	"jawla/game/matchmaker"
	"jawla/game/session"
)

// gameServiceImpl implements GameService. A single mutex serializes every
// mutating operation, which is what makes the engine's lock-free sessions
// safe: at most one action is in flight per process, and deferred tasks
// take the same lock before re-checking their preconditions.
type gameServiceImpl struct {
	cfg       Config
	registry  *session.Registry
	queue     *matchmaker.Queue
	scheduler *session.Scheduler
	hub       Broadcaster
	startedAt time.Time
	mu        sync.Mutex
}

// NewGameService wires the registry, waiting queue, scheduler, and
// broadcaster into a game service.
func NewGameService(registry *session.Registry, queue *matchmaker.Queue, scheduler *session.Scheduler, hub Broadcaster, cfg Config) GameService {
	return &gameServiceImpl{
		cfg:       cfg,
		registry:  registry,
		queue:     queue,
		scheduler: scheduler,
		hub:       hub,
		startedAt: time.Now(),
	}
}

// FindGame queues the participant for open matchmaking and immediately
// attempts a match.
func (g *gameServiceImpl) FindGame(ctx context.Context, playerID string, profile Profile, size int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.registry.FindByParticipant(playerID); err == nil {
		return session.ErrAlreadyInSession
	}

	ticket := &matchmaker.Ticket{
		PlayerID: playerID,
		Name:     profile.Name,
		Icon:     profile.Icon,
		Color:    profile.Color,
		Size:     size,
	}
	if err := g.queue.Enqueue(ticket); err != nil {
		return err
	}
	g.tryMatchLocked(ticket.Size)
	return nil
}

// CancelSearch removes the participant from the waiting queue.
func (g *gameServiceImpl) CancelSearch(ctx context.Context, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.queue.Cancel(playerID) {
		g.hub.ToPlayer(playerID, EventSearchCancelled, nil)
	}
}

// tryMatchLocked forms one session when enough connected participants with
// the same desired size are waiting. Matched sessions deal immediately;
// the game-started announcement follows after the countdown, the same way
// a lobby start does.
func (g *gameServiceImpl) tryMatchLocked(size int) {
	tickets := g.queue.TryMatch(size)
	if tickets == nil {
		return
	}

	s := g.registry.Create(size)
	for _, t := range tickets {
		s.Players = append(s.Players, &engine.Player{
			ID:     t.PlayerID,
			Name:   t.Name,
			Icon:   t.Icon,
			Color:  t.Color,
			Ready:  true,
			Online: true,
		})
	}
	s.HostID = tickets[0].PlayerID
	s.Start(deck.Build())

	for seat, t := range tickets {
		g.hub.ToPlayer(t.PlayerID, EventGameFound, FoundNotice{Code: s.Code, YourSeat: seat})
	}
	g.announceStart(s)
	log.Printf("Matched %d players into session %s", len(tickets), s.Code)
}

// announceStart broadcasts the countdown and schedules the game-started
// state delivery. The fired task re-checks that the game is still running:
// a departure during the countdown aborts it.
func (g *gameServiceImpl) announceStart(s *engine.Session) {
	g.hub.ToPlayers(memberIDs(s), EventGameStarting, map[string]string{"code": s.Code})

	code := s.Code
	g.scheduler.Schedule("start:"+code, g.cfg.StartCountdown, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		s, err := g.registry.Get(code)
		if err != nil || s.Status != engine.StatusPlaying {
			return
		}
		g.broadcastStateLocked(s, EventGameStarted)
	})
}

// CreateRoom opens a private waiting session with the caller as host.
func (g *gameServiceImpl) CreateRoom(ctx context.Context, playerID string, profile Profile) (*SessionView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.registry.FindByParticipant(playerID); err == nil {
		return nil, session.ErrAlreadyInSession
	}
	g.queue.Cancel(playerID)

	s := g.registry.Create(engine.MaxPlayers)
	p := &engine.Player{
		ID:     playerID,
		Name:   profile.Name,
		Icon:   profile.Icon,
		Color:  profile.Color,
		Online: true,
	}
	if err := s.AddPlayer(p); err != nil {
		g.registry.Remove(s.Code)
		return nil, err
	}

	log.Printf("Session %s created by %s", s.Code, profile.Name)
	return viewFor(s, playerID), nil
}

// JoinRoom seats the caller in an existing waiting session by join code.
func (g *gameServiceImpl) JoinRoom(ctx context.Context, playerID, code string, profile Profile) (*SessionView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.Get(code)
	if err != nil {
		return nil, err
	}
	if _, err := g.registry.FindByParticipant(playerID); err == nil {
		return nil, session.ErrAlreadyInSession
	}
	g.queue.Cancel(playerID)

	p := &engine.Player{
		ID:     playerID,
		Name:   profile.Name,
		Icon:   profile.Icon,
		Color:  profile.Color,
		Online: true,
	}
	if err := s.AddPlayer(p); err != nil {
		return nil, err
	}

	g.broadcastStateLocked(s, EventRoomUpdated)
	log.Printf("%s joined session %s", profile.Name, code)
	return viewFor(s, playerID), nil
}

// ToggleReady flips the caller's ready flag and republishes the room.
func (g *gameServiceImpl) ToggleReady(ctx context.Context, playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return err
	}
	s.ToggleReady(playerID)
	g.broadcastStateLocked(s, EventRoomUpdated)
	return nil
}

// StartGame deals the session. Host only, at least two players, everyone
// ready. The dealt state is announced after the countdown window.
func (g *gameServiceImpl) StartGame(ctx context.Context, playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return err
	}
	if s.HostID != playerID {
		return ErrNotHost
	}
	if s.Status != engine.StatusWaiting {
		return engine.ErrGameStarted
	}
	if len(s.Players) < engine.MinPlayers {
		return ErrTooFewPlayers
	}
	for _, p := range s.Players {
		if !p.Ready {
			return ErrPlayersNotReady
		}
	}

	s.Start(deck.Build())
	g.announceStart(s)
	log.Printf("Game started in session %s with %d players", s.Code, len(s.Players))
	return nil
}

// PlayCard runs the play action and publishes the outcome. A winning play
// broadcasts game-ended and arms the lobby-reset grace window so clients
// have time to render the win.
func (g *gameServiceImpl) PlayCard(ctx context.Context, playerID string, cardID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return engine.ErrNoActiveSession
	}
	if err := s.PlayCard(playerID, cardID); err != nil {
		return err
	}

	if s.Status == engine.StatusEnded {
		g.finishGameLocked(s, "win")
		return nil
	}

	g.broadcastStateLocked(s, EventGameStateUpdate)
	g.hub.ToPlayers(memberIDs(s), EventTurnUpdate, TurnUpdate{
		Code:               s.Code,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Direction:          s.Direction,
		Version:            s.Version,
	})
	return nil
}

// finishGameLocked publishes the outcome and schedules the lobby reset.
// The reset task re-checks that the session still exists and is still in
// the ended state before touching anything.
func (g *gameServiceImpl) finishGameLocked(s *engine.Session, reason string) {
	notice := GameEndedNotice{Code: s.Code, Reason: reason}
	if winner := s.Player(s.WinnerID); winner != nil {
		notice.WinnerID = winner.ID
		notice.WinnerName = winner.Name
	}
	g.hub.ToPlayers(memberIDs(s), EventGameEnded, notice)
	log.Printf("Game ended in session %s (reason: %s, winner: %s)", s.Code, reason, notice.WinnerName)

	code := s.Code
	g.scheduler.Schedule("reset:"+code, g.cfg.WinResetDelay, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		s, err := g.registry.Get(code)
		if err != nil || s.Status != engine.StatusEnded {
			return
		}
		s.ResetToLobby()
		g.broadcastStateLocked(s, EventRoomUpdated)
	})
}

// DrawCard runs the draw sub-action. The drawn card goes only to the
// drawer's own state update; everyone else just sees the counts move.
func (g *gameServiceImpl) DrawCard(ctx context.Context, playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return engine.ErrNoActiveSession
	}
	if err := s.DrawCard(playerID); err != nil {
		return err
	}

	p := s.Player(playerID)
	g.hub.ToPlayer(playerID, EventGameStateUpdate, viewFor(s, playerID))
	g.hub.ToPlayers(memberIDs(s), EventPlayerDrew, DrewNotice{
		PlayerID:      p.ID,
		PlayerName:    p.Name,
		HandCount:     p.HandCount(),
		DrawPileCount: s.DrawPileCount,
		Version:       s.Version,
	})
	return nil
}

// AnnounceUno sets the announced flag and notifies the table.
func (g *gameServiceImpl) AnnounceUno(ctx context.Context, playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return engine.ErrNoActiveSession
	}
	if err := s.AnnounceUno(playerID); err != nil {
		return err
	}

	p := s.Player(playerID)
	g.hub.ToPlayers(memberIDs(s), EventPlayerAnnounced, map[string]string{
		"player_id":   p.ID,
		"player_name": p.Name,
	})
	return nil
}

// FullSync repairs the caller's session and returns the caller-scoped
// view. This is the client's retry mechanism after any interruption.
func (g *gameServiceImpl) FullSync(ctx context.Context, playerID string) (*SessionView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return nil, engine.ErrNoActiveSession
	}
	engine.ValidateAndFix(s)
	return viewFor(s, playerID), nil
}

// AckVersion marks the session freshly synced when the acknowledged
// version is current. Stale acks are expected under latency and ignored.
func (g *gameServiceImpl) AckVersion(ctx context.Context, playerID string, version uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return
	}
	if s.Version == version {
		s.LastSync = time.Now()
	}
}

// Ping answers with server time and one-way latency, for client drift
// display only.
func (g *gameServiceImpl) Ping(ctx context.Context, playerID string, clientTimestamp int64) Pong {
	now := time.Now().UnixMilli()
	return Pong{ServerTime: now, LatencyMs: now - clientTimestamp}
}

// LeaveRoom removes the caller from their session (and the waiting queue).
// The last player out deletes the session immediately.
func (g *gameServiceImpl) LeaveRoom(ctx context.Context, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.queue.Cancel(playerID)

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return
	}
	removed := s.RemovePlayer(playerID)
	if removed == nil {
		return
	}
	log.Printf("%s left session %s", removed.Name, s.Code)

	if len(s.Players) == 0 {
		g.dropSessionLocked(s.Code)
		return
	}
	g.hub.ToPlayers(memberIDs(s), EventPlayerLeft, map[string]string{
		"player_id":   removed.ID,
		"player_name": removed.Name,
	})
	g.broadcastStateLocked(s, EventRoomUpdated)
}

// HandleDisconnect reacts to a dropped transport. Lobby members are
// removed outright; members of a running game are kept seated but marked
// offline, and a grace-window task ends the game if the session is still
// down to at most one connected player when it fires.
func (g *gameServiceImpl) HandleDisconnect(ctx context.Context, playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.queue.Cancel(playerID)

	s, err := g.registry.FindByParticipant(playerID)
	if err != nil {
		return
	}

	if s.Status != engine.StatusPlaying {
		removed := s.RemovePlayer(playerID)
		if removed == nil {
			return
		}
		if len(s.Players) == 0 {
			g.dropSessionLocked(s.Code)
			return
		}
		g.hub.ToPlayers(memberIDs(s), EventPlayerLeft, map[string]string{
			"player_id":   removed.ID,
			"player_name": removed.Name,
		})
		g.broadcastStateLocked(s, EventRoomUpdated)
		return
	}

	s.SetOnline(playerID, false)
	p := s.Player(playerID)
	g.hub.ToPlayers(memberIDs(s), EventPlayerDisconnected, map[string]string{
		"player_id":   p.ID,
		"player_name": p.Name,
	})
	log.Printf("%s disconnected from session %s (%d still online)", p.Name, s.Code, s.OnlineCount())

	if s.OnlineCount() > 1 {
		return
	}
	code := s.Code
	g.scheduler.Schedule("end:"+code, g.cfg.DisconnectGrace, func() {
		g.mu.Lock()
		defer g.mu.Unlock()

		s, err := g.registry.Get(code)
		if err != nil || s.Status != engine.StatusPlaying || s.OnlineCount() > 1 {
			return
		}
		for _, p := range s.Players {
			if p.Online {
				s.WinnerID = p.ID
				break
			}
		}
		s.Status = engine.StatusEnded
		g.finishGameLocked(s, "abandoned")
		g.dropSessionLocked(code)
	})
}

// Sweep is one pass of the lifecycle sweeper: repair every session, evict
// idle and empty ones, prune dead queue tickets. Sessions are processed
// defensively so one failure cannot abort the pass.
func (g *gameServiceImpl) Sweep() SweepStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	var stats SweepStats
	for _, s := range g.registry.List() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Sweeper: panic repairing session %s: %v", s.Code, r)
				}
			}()
			if engine.ValidateAndFix(s) {
				stats.Repaired++
			}
		}()
	}

	for _, code := range g.registry.RemoveExpired(g.cfg.IdleTimeout) {
		g.cancelTasksLocked(code)
		stats.Evicted++
	}

	for _, t := range g.queue.PruneStale(g.cfg.QueueMaxWait) {
		g.hub.ToPlayer(t.PlayerID, EventSearchCancelled, nil)
		stats.PrunedTickets++
	}
	return stats
}

// Status reports the aggregate counters used by the heartbeat broadcast
// and the /status endpoint.
func (g *gameServiceImpl) Status() ServerStatus {
	playing := 0
	for _, s := range g.registry.List() {
		if s.Status == engine.StatusPlaying {
			playing++
		}
	}
	return ServerStatus{
		Sessions:      g.registry.Count(),
		Playing:       playing,
		QueueDepth:    g.queue.Len(),
		UptimeSeconds: int64(time.Since(g.startedAt).Seconds()),
		Timestamp:     time.Now(),
	}
}

// ListOpenRooms returns waiting sessions that still have space.
func (g *gameServiceImpl) ListOpenRooms() []RoomSummary {
	result := []RoomSummary{}
	for _, s := range g.registry.List() {
		if s.Status != engine.StatusWaiting || len(s.Players) >= s.MaxPlayers {
			continue
		}
		summary := RoomSummary{
			Code:       s.Code,
			Players:    len(s.Players),
			MaxPlayers: s.MaxPlayers,
		}
		if host := s.Player(s.HostID); host != nil {
			summary.Host = host.Name
		}
		result = append(result, summary)
	}
	return result
}

// dropSessionLocked removes a session and everything scheduled for it.
func (g *gameServiceImpl) dropSessionLocked(code string) {
	g.registry.Remove(code)
	g.cancelTasksLocked(code)
	log.Printf("Session %s removed", code)
}

func (g *gameServiceImpl) cancelTasksLocked(code string) {
	g.scheduler.Cancel("start:" + code)
	g.scheduler.Cancel("reset:" + code)
	g.scheduler.Cancel("end:" + code)
}

// broadcastStateLocked unicasts a participant-scoped view to every member.
// Views are per-recipient because hands are private.
func (g *gameServiceImpl) broadcastStateLocked(s *engine.Session, event string) {
	for _, p := range s.Players {
		g.hub.ToPlayer(p.ID, event, viewFor(s, p.ID))
	}
}

// memberIDs collects the participant IDs of a session.
func memberIDs(s *engine.Session) []string {
	ids := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

// viewFor projects a session for one participant: public metadata, hand
// counts for everyone, and the full hand only for the viewer.
func viewFor(s *engine.Session, playerID string) *SessionView {
	view := &SessionView{
		Code:               s.Code,
		Status:             s.Status,
		HostID:             s.HostID,
		Players:            make([]PlayerView, 0, len(s.Players)),
		CurrentCard:        s.CurrentCard,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Direction:          s.Direction,
		DrawPileCount:      s.DrawPileCount,
		Version:            s.Version,
		Checksum:           s.Checksum,
		WinnerID:           s.WinnerID,
		YourSeat:           -1,
	}
	for i, p := range s.Players {
		view.Players = append(view.Players, PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Icon:      p.Icon,
			Color:     p.Color,
			Seat:      i,
			HandCount: p.HandCount(),
			Announced: p.Announced,
			Ready:     p.Ready,
			Online:    p.Online,
		})
		if p.ID == playerID {
			view.YourSeat = i
			view.YourHand = append([]deck.Card(nil), p.Hand...)
		}
	}
	if view.YourHand == nil {
		view.YourHand = []deck.Card{}
	}
	return view
}
