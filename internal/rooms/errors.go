package rooms

import "errors"

// The recoverable failures a room operation can report. These are
// surfaced to the requesting connection only and never affect other
// players in the room.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrInvalidState        = errors.New("that action is not allowed in the room's current state")
	ErrUnauthorized        = errors.New("only the room owner can do that")
	ErrInsufficientPlayers = errors.New("need at least 2 players to start a game")
	ErrNotInRoom           = errors.New("player is not a member of this room")
)
