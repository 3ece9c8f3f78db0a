package rooms

import (
	"time"

	"github.com/The-Coder-x/TypeWar/internal/players"
)

// StartRace begins a race with the given text. Only the owner may
// start, at least MinPlayers must be present, and no race may already
// be running. A finished room starts its next race through the same
// call. The returned race id identifies this race to FinishRace so a
// timer from an earlier race can never end a later one.
func (r *Room) StartRace(requesterID, text string, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.ownerID {
		return 0, ErrUnauthorized
	}
	if len(r.players) < MinPlayers {
		return 0, ErrInsufficientPlayers
	}
	if r.state == StatePlaying {
		return 0, ErrInvalidState
	}

	r.stopDeadlineLocked()
	r.state = StatePlaying
	r.currentText = text
	r.gameStartTime = now
	r.raceSeq++
	for _, p := range r.players {
		p.ResetRace()
	}
	return r.raceSeq, nil
}

// ScheduleDeadline arms the race's cancellable countdown. The timer is
// owned by the room: it is stopped when the race ends early or the
// room is destroyed.
func (r *Room) ScheduleDeadline(raceID int, d time.Duration, fire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.destroyed || r.raceSeq != raceID || r.state != StatePlaying {
		return
	}
	r.deadline = time.AfterFunc(d, fire)
}

// ProgressUpdate is the outcome of applying one progress report.
type ProgressUpdate struct {
	Players      []players.Player
	WPM          int // the reporter's stored values after clamping
	Progress     int
	JustFinished bool // this report latched the player's finish
	AllFinished  bool // every room member has finished
	RaceID       int
}

// ApplyProgress stores a player's reported stats after clamping them
// into range. Progress at or past 100 latches isFinished and records
// the finish time once; later reports cannot unset it.
func (r *Room) ApplyProgress(playerID string, wpm, progress int, now time.Time) (ProgressUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StatePlaying {
		return ProgressUpdate{}, ErrInvalidState
	}
	p := r.memberLocked(playerID)
	if p == nil {
		return ProgressUpdate{}, ErrNotInRoom
	}

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	if wpm < 0 {
		wpm = 0
	}

	p.WPM = wpm
	p.Progress = progress
	upd := ProgressUpdate{RaceID: r.raceSeq, WPM: wpm, Progress: progress}
	if progress >= 100 && !p.IsFinished {
		p.IsFinished = true
		p.FinishTime = now
		upd.JustFinished = true
	}

	upd.AllFinished = true
	for _, m := range r.players {
		if !m.IsFinished {
			upd.AllFinished = false
			break
		}
	}

	upd.Players = make([]players.Player, len(r.players))
	for i, m := range r.players {
		upd.Players[i] = *m
	}
	return upd, nil
}

// FinishRace moves the race to finished and returns the final roster
// in display order. It reports false when the race id is stale or the
// room already left playing, so the deadline timer and the
// all-finished path cannot both end the same race.
func (r *Room) FinishRace(raceID int) ([]players.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed || r.raceSeq != raceID || r.state != StatePlaying {
		return nil, false
	}
	r.stopDeadlineLocked()
	r.state = StateFinished

	final := make([]players.Player, len(r.players))
	for i, p := range r.players {
		final[i] = *p
	}
	return final, true
}

// AllFinished reports whether a race is running and every current
// member has finished. A departure mid-race can make this true.
func (r *Room) AllFinished() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying || len(r.players) == 0 {
		return 0, false
	}
	for _, p := range r.players {
		if !p.IsFinished {
			return 0, false
		}
	}
	return r.raceSeq, true
}

func (r *Room) stopDeadlineLocked() {
	if r.deadline != nil {
		r.deadline.Stop()
		r.deadline = nil
	}
}
