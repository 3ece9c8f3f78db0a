package game

import (
	"time"

	"github.com/The-Coder-x/TypeWar/internal/players"
	"github.com/The-Coder-x/TypeWar/internal/rooms"
	"github.com/The-Coder-x/TypeWar/internal/texts"
)

// Events receives the engine's race notifications. The server layer
// implements it to fan events out to room members and to mirror them
// to persistence.
type Events interface {
	GameStarted(room *rooms.Room, text string, startedAt time.Time)
	ProgressUpdated(room *rooms.Room, roster []players.Player)
	GameEnded(room *rooms.Room, standings []Standing)
}

// Engine drives races: it picks the text, starts the room's state
// machine, arms the countdown, applies progress reports and ends the
// race on deadline or when everyone finishes, whichever comes first.
type Engine struct {
	catalog  *texts.Catalog
	duration time.Duration
	events   Events
}

func NewEngine(catalog *texts.Catalog, duration time.Duration, events Events) *Engine {
	return &Engine{
		catalog:  catalog,
		duration: duration,
		events:   events,
	}
}

// Duration is the fixed race length measured from the start timestamp.
func (e *Engine) Duration() time.Duration {
	return e.duration
}

// Start begins a race in the room on behalf of requesterID. Every
// member receives the same text and the same start timestamp, so
// elapsed time is computed identically on every client.
//
// Each engine entry point runs its state change and event emission as
// one room command (rooms.Serialize), so a concurrent progress report
// cannot be broadcast ahead of the gameStarted it belongs to, and no
// progressUpdate can land after the race's gameEnded.
func (e *Engine) Start(room *rooms.Room, requesterID string) error {
	text := e.catalog.Pick()
	now := time.Now()

	var raceID int
	var err error
	room.Serialize(func() {
		raceID, err = room.StartRace(requesterID, text, now)
		if err != nil {
			return
		}
		e.events.GameStarted(room, text, now)
	})
	if err != nil {
		return err
	}

	room.ScheduleDeadline(raceID, e.duration, func() {
		e.finish(room, raceID)
	})
	return nil
}

// UpdateProgress applies one progress report and broadcasts the
// resulting roster snapshot. The returned update carries the values as
// stored, clamping included. If the report completes the last
// unfinished player, the race ends immediately.
func (e *Engine) UpdateProgress(room *rooms.Room, playerID string, wpm, progress int) (rooms.ProgressUpdate, error) {
	var upd rooms.ProgressUpdate
	var err error
	room.Serialize(func() {
		upd, err = room.ApplyProgress(playerID, wpm, progress, time.Now())
		if err != nil {
			return
		}
		e.events.ProgressUpdated(room, upd.Players)
		if upd.AllFinished {
			e.finishCmd(room, upd.RaceID)
		}
	})
	return upd, err
}

// CheckAllFinished ends a running race early when a roster change
// leaves only finished players behind.
func (e *Engine) CheckAllFinished(room *rooms.Room) {
	room.Serialize(func() {
		if raceID, ok := room.AllFinished(); ok {
			e.finishCmd(room, raceID)
		}
	})
}

// finish ends the race as a command of its own; the deadline timer
// lands here.
func (e *Engine) finish(room *rooms.Room, raceID int) {
	room.Serialize(func() {
		e.finishCmd(room, raceID)
	})
}

// finishCmd ends the race from inside an already running command.
func (e *Engine) finishCmd(room *rooms.Room, raceID int) {
	final, ok := room.FinishRace(raceID)
	if !ok {
		return
	}
	e.events.GameEnded(room, Rank(final))
}
