package game

import (
	"sync"
	"time"
)

const (
	StateWaiting    = "waiting"
	StateReady      = "ready"
	StateInProgress = "in_progress"
	StateEnded      = "ended"
)

// Player is a participant in a room. ConnID is the transport-assigned
// connection identity and the only handle used for turn comparisons.
type Player struct {
	ConnID string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Moves  int    `json:"moves"`
	Hits   int    `json:"hits"`
}

// Room is an isolated game session for up to two players. All fields
// behind mu are mutated only by Manager handlers holding the lock;
// deferred actions (reveal flip-back, timer expiry) re-fetch the room by
// id and check generation before touching it.
type Room struct {
	mu sync.Mutex

	ID          string
	Players     []*Player // join order
	Cards       []Card
	CurrentTurn string // conn id, empty when no game is running
	GameStarted bool
	Locked      bool
	Ended       bool

	Password    string
	PairCount   int
	TurnSeconds int

	// generation is bumped on every deal, reset and end so that a
	// deferred action scheduled against an earlier game is a no-op.
	generation uint64

	createdAt time.Time
	startedAt time.Time

	revealTimer *time.Timer
	turnTimer   *turnTimer
}

func newRoom(id, password string, pairCount, turnSeconds int) *Room {
	return &Room{
		ID:          id,
		Players:     make([]*Player, 0, 2),
		Password:    password,
		PairCount:   pairCount,
		TurnSeconds: turnSeconds,
		createdAt:   time.Now(),
	}
}

// State reports the lifecycle state; callers must hold mu.
func (r *Room) stateLocked() string {
	switch {
	case r.Ended:
		return StateEnded
	case r.GameStarted:
		return StateInProgress
	case len(r.Players) == 2:
		return StateReady
	default:
		return StateWaiting
	}
}

func (r *Room) playerLocked(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) otherPlayerLocked(connID string) *Player {
	for _, p := range r.Players {
		if p.ConnID != connID {
			return p
		}
	}
	return nil
}

func (r *Room) removePlayerLocked(connID string) bool {
	for i, p := range r.Players {
		if p.ConnID == connID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// flippedUnmatchedLocked returns pointers into r.Cards for every card
// currently face up but not yet matched. The two-flip protocol keeps
// this at two or fewer.
func (r *Room) flippedUnmatchedLocked() []*Card {
	var out []*Card
	for i := range r.Cards {
		if r.Cards[i].IsFlipped && !r.Cards[i].IsMatched {
			out = append(out, &r.Cards[i])
		}
	}
	return out
}

func (r *Room) allMatchedLocked() bool {
	if len(r.Cards) == 0 {
		return false
	}
	for i := range r.Cards {
		if !r.Cards[i].IsMatched {
			return false
		}
	}
	return true
}

// winnerLocked picks the player with the strictly highest score. Ties go
// to the earliest joiner; with two players that is Players[0]. The
// tie-break is deliberate and deterministic.
func (r *Room) winnerLocked() *Player {
	var best *Player
	for _, p := range r.Players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	return best
}

// resetLocked returns the room to the waiting state: no deck, no turn,
// no lock. Timers must already be stopped by the caller.
func (r *Room) resetLocked() {
	r.GameStarted = false
	r.Ended = false
	r.Locked = false
	r.Cards = nil
	r.CurrentTurn = ""
	r.generation++
}

// stopTimersLocked cancels the reveal-delay callback and the turn timer.
// Called on every transition out of IN_PROGRESS.
func (r *Room) stopTimersLocked() {
	if r.revealTimer != nil {
		r.revealTimer.Stop()
		r.revealTimer = nil
	}
	if r.turnTimer != nil {
		r.turnTimer.stop()
		r.turnTimer = nil
	}
}
