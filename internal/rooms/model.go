package rooms

import (
	"sync"
	"time"

	"github.com/The-Coder-x/TypeWar/internal/players"
)

// State is the phase of a room's current race. Within one race the
// phase only moves forward; a finished room can be reused by starting
// the next race, which snaps it back through waiting.
type State string

const (
	StateWaiting  = State("waiting")
	StatePlaying  = State("playing")
	StateFinished = State("finished")
)

// MinPlayers is the smallest roster a race can start with.
const MinPlayers = 2

// Room is the live record for one race session and its participants.
// All mutation goes through methods holding mu, so concurrent commands
// against the same room are applied one at a time.
type Room struct {
	Code      string
	Name      string
	IsPrivate bool
	CreatedAt time.Time

	ops sync.Mutex // serializes whole commands, see Serialize

	mu            sync.Mutex
	ownerID       string
	players       []*players.Player // insertion order = display order
	state         State
	currentText   string
	gameStartTime time.Time
	raceSeq       int // bumps on every StartRace; stale timers check it
	deadline      *time.Timer
	destroyed     bool
}

// Info is a point-in-time copy of a room's observable state. Player
// entries are value copies, safe to hand to encoders.
type Info struct {
	Code          string
	Name          string
	IsPrivate     bool
	OwnerID       string
	State         State
	CurrentText   string
	GameStartTime time.Time
	Players       []players.Player
}

func (r *Room) Info() Info {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.infoLocked()
}

func (r *Room) infoLocked() Info {
	ps := make([]players.Player, len(r.players))
	for i, p := range r.players {
		ps[i] = *p
	}
	return Info{
		Code:          r.Code,
		Name:          r.Name,
		IsPrivate:     r.IsPrivate,
		OwnerID:       r.ownerID,
		State:         r.state,
		CurrentText:   r.currentText,
		GameStartTime: r.gameStartTime,
		Players:       ps,
	}
}

func (r *Room) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) OwnerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownerID
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Serialize runs fn as one room command, excluding other Serialize
// calls on the same room. A command's state change and the events it
// emits must run inside a single fn so connections observe events in
// the order the state changes applied.
func (r *Room) Serialize(fn func()) {
	r.ops.Lock()
	defer r.ops.Unlock()
	fn()
}

func (r *Room) memberLocked(playerID string) *players.Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}
