package players

import "time"

// Player is the live record for one connected participant. A player
// exists for exactly as long as its connection holds a seat in a room;
// race stats are reset by the room when a new race starts.
type Player struct {
	ID         string
	Name       string
	RoomCode   string
	IsOwner    bool
	WPM        int
	Progress   int
	IsFinished bool
	FinishTime time.Time // zero until IsFinished latches
	JoinedAt   time.Time
}

// ResetRace clears per-race stats ahead of a new race.
func (p *Player) ResetRace() {
	p.WPM = 0
	p.Progress = 0
	p.IsFinished = false
	p.FinishTime = time.Time{}
}
