package protocol

import (
	"encoding/json"
	"time"

	"github.com/The-Coder-x/TypeWar/internal/game"
	"github.com/The-Coder-x/TypeWar/internal/players"
	"github.com/The-Coder-x/TypeWar/internal/rooms"
)

// PlayerSnapshot is the wire form of one player's live stats.
type PlayerSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsOwner    bool   `json:"isOwner"`
	WPM        int    `json:"wpm"`
	Progress   int    `json:"progress"`
	IsFinished bool   `json:"isFinished"`
}

// RoomSnapshot is the wire form of a full room, players included, so
// every client renders from the same globally consistent view.
type RoomSnapshot struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	IsPrivate     bool             `json:"isPrivate"`
	OwnerID       string           `json:"ownerId"`
	GameState     string           `json:"gameState"`
	CurrentText   string           `json:"currentText"`
	GameStartTime int64            `json:"gameStartTime,omitempty"` // unix ms
	Players       []PlayerSnapshot `json:"players"`
}

// RankingEntry is one row of a gameEnded payload.
type RankingEntry struct {
	Rank       int    `json:"rank"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	WPM        int    `json:"wpm"`
	Progress   int    `json:"progress"`
	IsFinished bool   `json:"isFinished"`
	FinishTime int64  `json:"finishTime,omitempty"` // unix ms
}

func snapshotPlayer(p players.Player) PlayerSnapshot {
	return PlayerSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		IsOwner:    p.IsOwner,
		WPM:        p.WPM,
		Progress:   p.Progress,
		IsFinished: p.IsFinished,
	}
}

// SnapshotRoom converts a room's point-in-time info into wire form.
// Timestamps travel as unix milliseconds so elapsed time is computed
// from the same number on every client, free of clock skew.
func SnapshotRoom(info rooms.Info) RoomSnapshot {
	snap := RoomSnapshot{
		Code:        info.Code,
		Name:        info.Name,
		IsPrivate:   info.IsPrivate,
		OwnerID:     info.OwnerID,
		GameState:   string(info.State),
		CurrentText: info.CurrentText,
		Players:     make([]PlayerSnapshot, len(info.Players)),
	}
	if !info.GameStartTime.IsZero() {
		snap.GameStartTime = info.GameStartTime.UnixMilli()
	}
	for i, p := range info.Players {
		snap.Players[i] = snapshotPlayer(p)
	}
	return snap
}

func marshal(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}

type roomAndPlayerPayload struct {
	Room     RoomSnapshot `json:"room"`
	PlayerID string       `json:"playerId"`
}

type roomPayload struct {
	Room RoomSnapshot `json:"room"`
}

type gameStartedPayload struct {
	Text      string       `json:"text"`
	StartTime int64        `json:"startTime"` // unix ms
	Room      RoomSnapshot `json:"room"`
}

type progressUpdatePayload struct {
	Players []PlayerSnapshot `json:"players"`
}

type gameEndedPayload struct {
	Rankings []RankingEntry `json:"rankings"`
}

type messagePayload struct {
	Message string `json:"message"`
}

func RoomCreated(info rooms.Info, playerID string) ([]byte, error) {
	return marshal(EventRoomCreated, roomAndPlayerPayload{Room: SnapshotRoom(info), PlayerID: playerID})
}

func RoomJoined(info rooms.Info, playerID string) ([]byte, error) {
	return marshal(EventRoomJoined, roomAndPlayerPayload{Room: SnapshotRoom(info), PlayerID: playerID})
}

func PlayerJoined(info rooms.Info) ([]byte, error) {
	return marshal(EventPlayerJoined, roomPayload{Room: SnapshotRoom(info)})
}

func PlayerLeft(info rooms.Info) ([]byte, error) {
	return marshal(EventPlayerLeft, roomPayload{Room: SnapshotRoom(info)})
}

func GameStarted(info rooms.Info, text string, startedAt time.Time) ([]byte, error) {
	return marshal(EventGameStarted, gameStartedPayload{
		Text:      text,
		StartTime: startedAt.UnixMilli(),
		Room:      SnapshotRoom(info),
	})
}

func ProgressUpdate(roster []players.Player) ([]byte, error) {
	snaps := make([]PlayerSnapshot, len(roster))
	for i, p := range roster {
		snaps[i] = snapshotPlayer(p)
	}
	return marshal(EventProgressUpdate, progressUpdatePayload{Players: snaps})
}

func GameEnded(standings []game.Standing) ([]byte, error) {
	rankings := make([]RankingEntry, len(standings))
	for i, s := range standings {
		entry := RankingEntry{
			Rank:       s.Rank,
			ID:         s.Player.ID,
			Name:       s.Player.Name,
			WPM:        s.Player.WPM,
			Progress:   s.Player.Progress,
			IsFinished: s.Player.IsFinished,
		}
		if !s.Player.FinishTime.IsZero() {
			entry.FinishTime = s.Player.FinishTime.UnixMilli()
		}
		rankings[i] = entry
	}
	return marshal(EventGameEnded, gameEndedPayload{Rankings: rankings})
}

func RoomDestroyed(message string) ([]byte, error) {
	return marshal(EventRoomDestroyed, messagePayload{Message: message})
}

func ErrorEvent(message string) ([]byte, error) {
	return marshal(EventError, messagePayload{Message: message})
}
