package domain

import "time"

type MatchResult string

const (
	MatchResultWin  MatchResult = "win"
	MatchResultLose MatchResult = "lose"
	MatchResultDraw MatchResult = "draw"
)

// MatchRecord is one player's side of a finished game, kept as an audit
// trail. Live rooms never read these back.
type MatchRecord struct {
	ID              int64       `json:"id"`
	RoomID          string      `json:"room_id"`
	PlayerName      string      `json:"player_name"`
	OpponentName    string      `json:"opponent_name"`
	Result          MatchResult `json:"result"`
	Score           int         `json:"score"`
	Moves           int         `json:"moves"`
	Hits            int         `json:"hits"`
	DurationSeconds int         `json:"duration_seconds"`
	CreatedAt       time.Time   `json:"created_at"`
}
