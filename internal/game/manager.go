package game

import (
	"context"
	"time"

	"matchpairs/internal/domain"
	"matchpairs/internal/logger"

	"github.com/google/uuid"
)

// Config carries the room defaults applied when a createRoom request
// leaves a field unset.
type Config struct {
	DefaultPairCount int
	TurnSeconds      int
	RevealDelay      time.Duration
	MaxPairs         int
}

// HistorySink receives finished-game records. A nil sink disables
// recording; the state machine never depends on it.
type HistorySink interface {
	Record(ctx context.Context, rec *domain.MatchRecord) error
}

// Manager is the room lifecycle controller: every inbound event lands
// here, is validated against current room state, and leaves behind a
// broadcast snapshot. Rooms are always re-fetched from the registry by
// id, never cached across events.
type Manager struct {
	registry *Registry
	deal     Dealer
	bc       Broadcaster
	cfg      Config
	history  HistorySink
}

func NewManager(registry *Registry, deal Dealer, bc Broadcaster, cfg Config) *Manager {
	return &Manager{
		registry: registry,
		deal:     deal,
		bc:       bc,
		cfg:      cfg,
	}
}

func (m *Manager) SetHistory(h HistorySink) {
	m.history = h
}

type CreateParams struct {
	RoomID      string
	PlayerName  string
	Password    string
	PairCount   int
	TurnSeconds int
}

// CreateRoom admits the creator into a fresh room. The room id is
// client-chosen; when omitted the server assigns one.
func (m *Manager) CreateRoom(connID string, p CreateParams) (string, error) {
	if p.PlayerName == "" || p.PairCount < 0 || p.TurnSeconds < 0 {
		return "", ErrInvalidConfig
	}
	pairCount := p.PairCount
	if pairCount == 0 {
		pairCount = m.cfg.DefaultPairCount
	}
	if m.cfg.MaxPairs > 0 && pairCount > m.cfg.MaxPairs {
		return "", ErrInsufficientImages
	}
	turnSeconds := p.TurnSeconds
	if turnSeconds == 0 {
		turnSeconds = m.cfg.TurnSeconds
	}
	roomID := p.RoomID
	if roomID == "" {
		roomID = uuid.NewString()
	}

	room := newRoom(roomID, p.Password, pairCount, turnSeconds)
	room.Players = append(room.Players, &Player{ConnID: connID, Name: p.PlayerName})
	if err := m.registry.Add(room); err != nil {
		return "", err
	}

	m.bc.JoinRoom(roomID, connID)
	m.bc.ToConn(connID, Event{Type: EvtRoomCreated, Payload: RoomCreatedPayload{RoomID: roomID}})
	logger.Info("room created", "room", roomID, "player", p.PlayerName, "pairs", pairCount)
	return roomID, nil
}

// JoinRoom admits a second player. The game starts the instant the room
// reaches two players.
func (m *Manager) JoinRoom(connID, roomID, playerName, password string) error {
	if playerName == "" {
		return ErrInvalidConfig
	}
	room, ok := m.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.playerLocked(connID) != nil {
		return ErrInvalidConfig
	}
	if room.Password != "" && room.Password != password {
		return ErrWrongPassword
	}
	if len(room.Players) >= 2 {
		return ErrRoomFull
	}

	room.Players = append(room.Players, &Player{ConnID: connID, Name: playerName})
	m.bc.JoinRoom(roomID, connID)
	m.bc.ToRoom(roomID, Event{Type: EvtPlayerJoined, Payload: PlayersPayload{Players: room.playersCopyLocked()}})
	logger.Info("player joined", "room", roomID, "player", playerName)

	if len(room.Players) == 2 {
		m.startGameLocked(room)
	}
	return nil
}

// startGameLocked deals a deck and opens the first turn. The first
// joiner starts.
func (m *Manager) startGameLocked(r *Room) {
	cards, err := m.deal(r.PairCount)
	if err != nil {
		// Pair count is validated at create time, so a deal failure is a
		// defect, not a user error.
		logger.Error("deal failed", "room", r.ID, "pairs", r.PairCount, "error", err)
		return
	}

	r.Cards = cards
	r.GameStarted = true
	r.Ended = false
	r.Locked = false
	r.CurrentTurn = r.Players[0].ConnID
	r.startedAt = time.Now()
	r.generation++
	gamesStarted.Inc()

	if r.TurnSeconds > 0 {
		m.startTurnTimerLocked(r)
	}

	m.bc.ToRoom(r.ID, Event{Type: EvtGameStart, Payload: GameStartPayload{
		RoomID:       r.ID,
		Cards:        r.wireCardsLocked(),
		CurrentTurn:  r.CurrentTurn,
		Players:      r.playersCopyLocked(),
		TimerSeconds: r.TurnSeconds,
	}})
	logger.Info("game started", "room", r.ID, "first_turn", r.CurrentTurn)
}

// FlipCard runs the two-flip protocol. A flip on an already flipped or
// matched card is a silent no-op, not an error: it is a stale or
// duplicate client event.
func (m *Manager) FlipCard(connID, roomID string, cardID int) error {
	room, ok := m.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if !room.GameStarted {
		return ErrGameNotActive
	}
	if room.Locked {
		return ErrAnimationInProgress
	}
	if connID != room.CurrentTurn {
		return ErrNotYourTurn
	}
	if cardID < 0 || cardID >= len(room.Cards) {
		return nil
	}
	card := &room.Cards[cardID]
	if card.IsFlipped || card.IsMatched {
		return nil
	}

	card.IsFlipped = true
	m.bc.ToRoom(roomID, Event{Type: EvtGameUpdate, Payload: room.updatePayloadLocked()})

	flipped := room.flippedUnmatchedLocked()
	if len(flipped) < 2 {
		return nil
	}

	room.Locked = true
	m.resolveLocked(room, flipped[0], flipped[1], room.playerLocked(connID))
	return nil
}

// resolveLocked is the match resolution engine: invoked with exactly the
// two flipped unmatched cards and the acting player.
func (m *Manager) resolveLocked(r *Room, a, b *Card, actor *Player) {
	actor.Moves++

	if a.Image == b.Image {
		a.IsMatched = true
		b.IsMatched = true
		actor.Score++
		actor.Hits++
		r.Locked = false
		pairsMatched.Inc()

		m.bc.ToRoom(r.ID, Event{Type: EvtGameUpdate, Payload: r.updatePayloadLocked()})

		if r.allMatchedLocked() {
			m.endGameLocked(r)
			return
		}
		// Matched player keeps the turn; the countdown starts over.
		if r.TurnSeconds > 0 {
			m.startTurnTimerLocked(r)
		}
		return
	}

	// Mismatch: leave both face up for the reveal delay so observers see
	// it, then flip back and hand over the turn.
	m.bc.ToRoom(r.ID, Event{Type: EvtGameUpdate, Payload: r.updatePayloadLocked()})

	gen := r.generation
	roomID := r.ID
	r.revealTimer = time.AfterFunc(m.cfg.RevealDelay, func() {
		m.revealFlipBack(roomID, gen)
	})
}

// revealFlipBack is the deferred no-match transition. It re-fetches the
// room and checks the generation: if the room was deleted, reset or
// restarted since scheduling, it does nothing.
func (m *Manager) revealFlipBack(roomID string, gen uint64) {
	room, ok := m.registry.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.generation != gen || !room.GameStarted {
		return
	}

	for _, c := range room.flippedUnmatchedLocked() {
		c.IsFlipped = false
	}
	if other := room.otherPlayerLocked(room.CurrentTurn); other != nil {
		room.CurrentTurn = other.ConnID
	}
	room.Locked = false
	room.revealTimer = nil

	if room.TurnSeconds > 0 {
		m.startTurnTimerLocked(room)
	}
	m.bc.ToRoom(roomID, Event{Type: EvtGameUpdate, Payload: room.updatePayloadLocked()})
}

// endGameLocked closes out a finished game. The room survives in ENDED
// for an explicit restart and is deleted only when it empties.
func (m *Manager) endGameLocked(r *Room) {
	r.stopTimersLocked()

	winner := r.winnerLocked()
	duration := int(time.Since(r.startedAt).Seconds())

	stats := make([]PlayerStats, 0, len(r.Players))
	for _, p := range r.Players {
		ps := PlayerStats{ID: p.ConnID, Name: p.Name, Score: p.Score, Moves: p.Moves, Hits: p.Hits}
		if p.Moves > 0 {
			ps.Accuracy = float64(p.Hits) / float64(p.Moves)
		}
		stats = append(stats, ps)
	}

	records := m.buildRecordsLocked(r, winner, duration)

	r.GameStarted = false
	r.Ended = true
	r.Locked = false
	r.CurrentTurn = ""
	r.generation++
	gamesCompleted.Inc()

	m.bc.ToRoom(r.ID, Event{Type: EvtGameEnd, Payload: GameEndPayload{
		Winner:          winner.Name,
		WinnerID:        winner.ConnID,
		Scores:          stats,
		DurationSeconds: duration,
	}})
	logger.Info("game ended", "room", r.ID, "winner", winner.Name, "duration_s", duration)

	if m.history != nil {
		for _, rec := range records {
			go func(rec *domain.MatchRecord) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.history.Record(ctx, rec); err != nil {
					logger.Error("match history write failed", "room", rec.RoomID, "error", err)
				}
			}(rec)
		}
	}
}

func (m *Manager) buildRecordsLocked(r *Room, winner *Player, duration int) []*domain.MatchRecord {
	// The gameEnd broadcast names a winner even on equal scores (first
	// joiner), but the history keeps the honest result.
	tied := len(r.Players) == 2 && r.Players[0].Score == r.Players[1].Score

	records := make([]*domain.MatchRecord, 0, len(r.Players))
	for _, p := range r.Players {
		rec := &domain.MatchRecord{
			RoomID:          r.ID,
			PlayerName:      p.Name,
			Result:          domain.MatchResultLose,
			Score:           p.Score,
			Moves:           p.Moves,
			Hits:            p.Hits,
			DurationSeconds: duration,
		}
		switch {
		case tied:
			rec.Result = domain.MatchResultDraw
		case p.ConnID == winner.ConnID:
			rec.Result = domain.MatchResultWin
		}
		if other := r.otherPlayerLocked(p.ConnID); other != nil {
			rec.OpponentName = other.Name
		}
		records = append(records, rec)
	}
	return records
}

// RestartGame redeals an ended room with scores wiped. Both players must
// still be present.
func (m *Manager) RestartGame(connID, roomID string) error {
	room, ok := m.registry.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.playerLocked(connID) == nil {
		return ErrRoomNotFound
	}
	if !room.Ended || len(room.Players) != 2 {
		return ErrGameNotActive
	}

	for _, p := range room.Players {
		p.Score = 0
		p.Moves = 0
		p.Hits = 0
	}
	m.startGameLocked(room)
	return nil
}

// Disconnect removes the connection from every room it belongs to. An
// emptied room is deleted; a half-emptied one is reset to waiting with
// all pending timers canceled.
func (m *Manager) Disconnect(connID string) {
	for _, room := range m.registry.List() {
		room.mu.Lock()
		if !room.removePlayerLocked(connID) {
			room.mu.Unlock()
			continue
		}
		roomID := room.ID
		m.bc.LeaveRoom(roomID, connID)

		if len(room.Players) == 0 {
			room.stopTimersLocked()
			room.generation++
			room.mu.Unlock()
			m.registry.Delete(roomID)
			logger.Info("room deleted", "room", roomID)
			continue
		}

		m.bc.ToRoom(roomID, Event{Type: EvtPlayerLeft, Payload: PlayersPayload{Players: room.playersCopyLocked()}})
		room.stopTimersLocked()
		room.resetLocked()
		m.bc.ToRoom(roomID, Event{Type: EvtGameReset, Payload: GameResetPayload{Reason: "a player left the game"}})
		logger.Info("room reset after disconnect", "room", roomID)
		room.mu.Unlock()
	}
}

// RoomInfo is the lobby listing view of a room.
type RoomInfo struct {
	ID          string `json:"id"`
	Players     int    `json:"players"`
	State       string `json:"state"`
	HasPassword bool   `json:"hasPassword"`
	PairCount   int    `json:"pairCount"`
}

func (m *Manager) Rooms() []RoomInfo {
	rooms := m.registry.List()
	out := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		out = append(out, RoomInfo{
			ID:          r.ID,
			Players:     len(r.Players),
			State:       r.stateLocked(),
			HasPassword: r.Password != "",
			PairCount:   r.PairCount,
		})
		r.mu.Unlock()
	}
	return out
}
