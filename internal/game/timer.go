package game

import (
	"math"
	"sync"
	"time"
)

// timerTick is the countdown broadcast interval. Tests shorten it.
var timerTick = time.Second

// turnTimer is the cancelable per-turn countdown. At most one is live
// per room; starting a new one stops its predecessor.
type turnTimer struct {
	cancel chan struct{}
	once   sync.Once
}

func (t *turnTimer) stop() {
	t.once.Do(func() { close(t.cancel) })
}

// startTurnTimerLocked arms the countdown for the current turn. Callers
// hold r.mu and have already set CurrentTurn.
func (m *Manager) startTurnTimerLocked(r *Room) {
	if r.turnTimer != nil {
		r.turnTimer.stop()
	}
	t := &turnTimer{cancel: make(chan struct{})}
	r.turnTimer = t
	deadline := time.Now().Add(time.Duration(r.TurnSeconds) * time.Second)
	go m.runTurnTimer(r.ID, r.generation, deadline, t)
}

func (m *Manager) runTurnTimer(roomID string, gen uint64, deadline time.Time, t *turnTimer) {
	ticker := time.NewTicker(timerTick)
	defer ticker.Stop()

	for {
		select {
		case <-t.cancel:
			return
		case <-ticker.C:
			remaining := time.Until(deadline)
			if remaining <= 0 {
				m.turnExpired(roomID, gen, t)
				return
			}
			m.broadcastTick(roomID, gen, int(math.Ceil(remaining.Seconds())))
		}
	}
}

// broadcastTick sends under the room lock so a concurrent reset cannot
// slip in between the staleness check and the send.
func (m *Manager) broadcastTick(roomID string, gen uint64, seconds int) {
	room, ok := m.registry.Get(roomID)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.generation != gen || !room.GameStarted {
		return
	}
	m.bc.ToRoom(roomID, Event{Type: EvtTimerUpdate, Payload: TimerUpdatePayload{SecondsRemaining: seconds}})
}

// turnExpired forces exactly one turn switch for an idle turn. It never
// fires against a deleted or reset room (generation check) and never
// while a two-flip resolution is pending: that window restarts the
// countdown itself.
func (m *Manager) turnExpired(roomID string, gen uint64, t *turnTimer) {
	room, ok := m.registry.Get(roomID)
	if !ok {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.generation != gen || !room.GameStarted || room.turnTimer != t {
		return
	}
	if room.Locked {
		return
	}

	if other := room.otherPlayerLocked(room.CurrentTurn); other != nil {
		room.CurrentTurn = other.ConnID
	}
	room.turnTimer = nil
	m.startTurnTimerLocked(room)
	m.bc.ToRoom(roomID, Event{Type: EvtGameUpdate, Payload: room.updatePayloadLocked()})
}
