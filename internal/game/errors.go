package game

import "errors"

// Admission errors: reported to the originating connection only, room
// state unchanged.
var (
	ErrDuplicateRoom      = errors.New("room id already in use")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrWrongPassword      = errors.New("wrong room password")
	ErrInvalidConfig      = errors.New("invalid room config")
	ErrInsufficientImages = errors.New("not enough images for requested pair count")
)

// Turn-protocol violations: expected client/network-race noise, reported
// to the sender only.
var (
	ErrGameNotActive       = errors.New("game is not active")
	ErrAnimationInProgress = errors.New("resolution in progress")
	ErrNotYourTurn         = errors.New("not your turn")
)

// ErrorCode maps a game error to the short code sent on the wire.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateRoom):
		return "duplicateRoomId"
	case errors.Is(err, ErrRoomNotFound):
		return "roomNotFound"
	case errors.Is(err, ErrRoomFull):
		return "roomFull"
	case errors.Is(err, ErrWrongPassword):
		return "authenticationFailed"
	case errors.Is(err, ErrInvalidConfig):
		return "invalidConfig"
	case errors.Is(err, ErrInsufficientImages):
		return "insufficientImagePool"
	case errors.Is(err, ErrGameNotActive):
		return "gameNotActive"
	case errors.Is(err, ErrAnimationInProgress):
		return "animationInProgress"
	case errors.Is(err, ErrNotYourTurn):
		return "notYourTurn"
	default:
		return "internal"
	}
}
