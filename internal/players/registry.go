package players

import (
	"sync"
	"time"
)

// Registry maps connection identity to the live player record.
type Registry struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Player),
	}
}

// Add creates a player record for the given connection id.
func (r *Registry) Add(id, name string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &Player{ID: id, Name: name, JoinedAt: time.Now()}
	r.players[id] = p
	return p
}

func (r *Registry) Get(id string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.players[id]
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}
