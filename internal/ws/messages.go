package ws

import (
	"encoding/json"
	"fmt"
)

// Inbound message types. The payload set is closed: anything else is
// rejected at the boundary before it reaches the state machine.
const (
	MsgCreateRoom  = "createRoom"
	MsgJoinRoom    = "joinRoom"
	MsgFlipCard    = "flipCard"
	MsgRestartGame = "restartGame"
)

// Connection-level outbound types. Game events come from the game
// package; these two are transport concerns.
const (
	MsgConnected = "connected"
	MsgError     = "error"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	RoomID      string `json:"roomId"`
	PlayerName  string `json:"playerName"`
	Password    string `json:"password"`
	PairCount   int    `json:"pairCount"`
	TurnSeconds int    `json:"turnDurationSeconds"`
}

type JoinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Password   string `json:"password"`
}

type FlipCardPayload struct {
	RoomID string `json:"roomId"`
	CardID *int   `json:"cardId"`
}

type RestartGamePayload struct {
	RoomID string `json:"roomId"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
}

func decodePayload(env envelope, out any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("%s: malformed payload: %w", env.Type, err)
	}
	return nil
}
