package game

// Event is a single outbound message, broadcast to a room or sent to one
// connection by the transport layer.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Outbound event types.
const (
	EvtRoomCreated  = "roomCreated"
	EvtJoinError    = "joinError"
	EvtFlipError    = "flipError"
	EvtPlayerJoined = "playerJoined"
	EvtPlayerLeft   = "playerLeft"
	EvtGameStart    = "gameStart"
	EvtGameUpdate   = "gameUpdate"
	EvtTimerUpdate  = "timerUpdate"
	EvtGameEnd      = "gameEnd"
	EvtGameReset    = "gameReset"
)

// WireCard is the client-facing view of a card. Image is blanked for
// face-down unmatched cards: the server keeps the truth, the wire must
// not leak it.
type WireCard struct {
	ID        int    `json:"id"`
	Image     string `json:"image,omitempty"`
	IsFlipped bool   `json:"isFlipped"`
	IsMatched bool   `json:"isMatched"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

type PlayersPayload struct {
	Players []*Player `json:"players"`
}

type GameStartPayload struct {
	RoomID       string     `json:"roomId"`
	Cards        []WireCard `json:"cards"`
	CurrentTurn  string     `json:"currentTurn"`
	Players      []*Player  `json:"players"`
	TimerSeconds int        `json:"timerSeconds,omitempty"`
}

type GameUpdatePayload struct {
	Cards       []WireCard `json:"cards"`
	CurrentTurn string     `json:"currentTurn"`
	Players     []*Player  `json:"players"`
}

type TimerUpdatePayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

// PlayerStats is the per-player block of a gameEnd event. Accuracy is
// hits/moves, zero when the player never moved.
type PlayerStats struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	Moves    int     `json:"moves"`
	Hits     int     `json:"hits"`
	Accuracy float64 `json:"accuracy"`
}

type GameEndPayload struct {
	Winner          string        `json:"winner"`
	WinnerID        string        `json:"winnerId"`
	Scores          []PlayerStats `json:"scores"`
	DurationSeconds int           `json:"durationSeconds"`
}

type GameResetPayload struct {
	Reason string `json:"reason"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Broadcaster is the transport collaborator: room-scoped membership and
// delivery, assumed reliable and ordered per connection.
type Broadcaster interface {
	JoinRoom(roomID, connID string)
	LeaveRoom(roomID, connID string)
	ToRoom(roomID string, evt Event)
	ToConn(connID string, evt Event)
}

// wireCardsLocked redacts face-down unmatched images; callers hold r.mu.
func (r *Room) wireCardsLocked() []WireCard {
	cards := make([]WireCard, len(r.Cards))
	for i, c := range r.Cards {
		wc := WireCard{ID: c.ID, IsFlipped: c.IsFlipped, IsMatched: c.IsMatched}
		if c.IsFlipped || c.IsMatched {
			wc.Image = c.Image
		}
		cards[i] = wc
	}
	return cards
}

func (r *Room) playersCopyLocked() []*Player {
	players := make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		players[i] = &cp
	}
	return players
}

func (r *Room) updatePayloadLocked() GameUpdatePayload {
	return GameUpdatePayload{
		Cards:       r.wireCardsLocked(),
		CurrentTurn: r.CurrentTurn,
		Players:     r.playersCopyLocked(),
	}
}
