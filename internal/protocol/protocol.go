// Package protocol defines the JSON wire format spoken over each
// client WebSocket: an envelope of {type, payload} in both directions,
// with inbound payloads validated before they reach any component.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/The-Coder-x/TypeWar/internal/rooms"
)

// Inbound message kinds.
const (
	MsgCreateRoom     = "createRoom"
	MsgJoinRoom       = "joinRoom"
	MsgStartGame      = "startGame"
	MsgUpdateProgress = "updateProgress"
	MsgLeaveRoom      = "leaveRoom"
)

// Outbound event kinds.
const (
	EventRoomCreated    = "roomCreated"
	EventRoomJoined     = "roomJoined"
	EventPlayerJoined   = "playerJoined"
	EventPlayerLeft     = "playerLeft"
	EventGameStarted    = "gameStarted"
	EventProgressUpdate = "progressUpdate"
	EventGameEnded      = "gameEnded"
	EventRoomDestroyed  = "roomDestroyed"
	EventError          = "error"
)

// ErrValidation marks a missing or malformed inbound field. It is
// reported only to the sending connection.
var ErrValidation = errors.New("validation error")

// Envelope is the outer shape of every wire message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses a raw frame into an envelope.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: malformed message", ErrValidation)
	}
	if env.Type == "" {
		return env, fmt.Errorf("%w: missing message type", ErrValidation)
	}
	return env, nil
}

type CreateRoomPayload struct {
	RoomName   string `json:"roomName"`
	IsPrivate  bool   `json:"isPrivate"`
	PlayerName string `json:"playerName"`
}

// DecodeCreateRoom validates a createRoom payload, trimming both names.
func DecodeCreateRoom(raw json.RawMessage) (CreateRoomPayload, error) {
	var p CreateRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: malformed createRoom payload", ErrValidation)
	}
	p.RoomName = strings.TrimSpace(p.RoomName)
	p.PlayerName = strings.TrimSpace(p.PlayerName)
	if p.RoomName == "" {
		return p, fmt.Errorf("%w: roomName is required", ErrValidation)
	}
	if p.PlayerName == "" {
		return p, fmt.Errorf("%w: playerName is required", ErrValidation)
	}
	return p, nil
}

type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

// DecodeJoinRoom validates a joinRoom payload. Room codes arrive
// case-insensitive and are normalized to uppercase.
func DecodeJoinRoom(raw json.RawMessage) (JoinRoomPayload, error) {
	var p JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: malformed joinRoom payload", ErrValidation)
	}
	p.RoomCode = strings.ToUpper(strings.TrimSpace(p.RoomCode))
	p.PlayerName = strings.TrimSpace(p.PlayerName)
	if len(p.RoomCode) != rooms.CodeLength {
		return p, fmt.Errorf("%w: roomCode must be %d characters", ErrValidation, rooms.CodeLength)
	}
	if p.PlayerName == "" {
		return p, fmt.Errorf("%w: playerName is required", ErrValidation)
	}
	return p, nil
}

type UpdateProgressPayload struct {
	TypedText string `json:"typedText"`
	WPM       int    `json:"wpm"`
	Progress  int    `json:"progress"`
}

// DecodeUpdateProgress parses an updateProgress payload. The numeric
// fields are clamped later by the room; the typed text itself is not
// re-validated server-side.
func DecodeUpdateProgress(raw json.RawMessage) (UpdateProgressPayload, error) {
	var p UpdateProgressPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: malformed updateProgress payload", ErrValidation)
	}
	return p, nil
}
