package rooms

import (
	"fmt"
	"sync"
	"time"

	"github.com/The-Coder-x/TypeWar/internal/players"
)

// Registry owns every live room, keyed by code. Rooms are created
// here and destroyed here; nothing else deletes from the map.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create generates a fresh code, creates the room in waiting state and
// seats the owner as its first player.
func (s *Registry) Create(name string, isPrivate bool, owner *players.Player) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for attempt := 0; attempt < 10; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating room code: %w", err)
		}
		if _, exists := s.rooms[code]; exists {
			continue
		}

		now := time.Now()
		owner.RoomCode = code
		owner.IsOwner = true
		owner.JoinedAt = now

		room := &Room{
			Code:      code,
			Name:      name,
			IsPrivate: isPrivate,
			CreatedAt: now,
			ownerID:   owner.ID,
			state:     StateWaiting,
			players:   []*players.Player{owner},
		}
		s.rooms[code] = room
		return room, nil
	}
	return nil, fmt.Errorf("failed to generate unique room code after 10 attempts")
}

// Find looks up a live room by code.
func (s *Registry) Find(code string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Join seats a player in the room with the given code. Mid-race joins
// are rejected; joining a finished room is fine, the newcomer simply
// races next time.
func (s *Registry) Join(code string, p *players.Player) (*Room, error) {
	room, err := s.Find(code)
	if err != nil {
		return nil, err
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if room.destroyed {
		return nil, ErrRoomNotFound
	}
	if room.state == StatePlaying {
		return nil, ErrInvalidState
	}

	p.RoomCode = code
	p.IsOwner = false
	p.JoinedAt = time.Now()
	room.players = append(room.players, p)
	return room, nil
}

// Removal describes what happened when a player left a room.
type Removal struct {
	Player     players.Player // copy of the removed player's record
	NewOwnerID string         // non-empty when ownership was reassigned
	Destroyed  bool           // the room emptied and was torn down
}

// RemovePlayer takes a player out of the room. If the owner leaves and
// others remain, ownership passes to the earliest-joined survivor so
// the room stays operable; when the last player leaves the room is
// destroyed and its countdown timer stopped.
func (s *Registry) RemovePlayer(room *Room, playerID string) (Removal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room.mu.Lock()
	defer room.mu.Unlock()

	idx := -1
	for i, p := range room.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Removal{}, false
	}

	removed := room.players[idx]
	room.players = append(room.players[:idx], room.players[idx+1:]...)

	res := Removal{Player: *removed}
	removed.RoomCode = ""
	removed.IsOwner = false

	if len(room.players) == 0 {
		room.destroyed = true
		room.stopDeadlineLocked()
		delete(s.rooms, room.Code)
		res.Destroyed = true
		return res, true
	}

	if room.ownerID == removed.ID {
		successor := room.players[0]
		for _, p := range room.players[1:] {
			if p.JoinedAt.Before(successor.JoinedAt) {
				successor = p
			}
		}
		successor.IsOwner = true
		room.ownerID = successor.ID
		res.NewOwnerID = successor.ID
	}
	return res, true
}

// Count reports the number of live rooms.
func (s *Registry) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
