package server

import (
	"sync"

	"github.com/The-Coder-x/TypeWar/internal/config"
	"github.com/The-Coder-x/TypeWar/internal/db"
	"github.com/The-Coder-x/TypeWar/internal/game"
	"github.com/The-Coder-x/TypeWar/internal/hub"
	"github.com/The-Coder-x/TypeWar/internal/players"
	"github.com/The-Coder-x/TypeWar/internal/rooms"
)

// Server wires the registries, the race engine and the connection
// gateway together. One instance serves all rooms.
type Server struct {
	Cfg     config.Config
	Rooms   *rooms.Registry
	Players *players.Registry
	Engine  *game.Engine

	DB             *db.DB                // nil if no database configured
	ProgressBuffer chan db.ProgressEvent // nil if no database configured

	mu      sync.Mutex
	hubs    map[string]*hub.Hub // room code -> connection hub
	raceIDs map[string]string   // room code -> mirrored race row id
}

func newServer(cfg config.Config) *Server {
	return &Server{
		Cfg:     cfg,
		Rooms:   rooms.NewRegistry(),
		Players: players.NewRegistry(),
		hubs:    make(map[string]*hub.Hub),
		raceIDs: make(map[string]string),
	}
}

func (s *Server) addHub(code string) *hub.Hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := hub.NewHub()
	s.hubs[code] = h
	return h
}

func (s *Server) hubOf(code string) *hub.Hub {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hubs[code]
}

func (s *Server) dropHub(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hubs, code)
	delete(s.raceIDs, code)
}

func (s *Server) setRaceID(code, raceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raceIDs[code] = raceID
}

func (s *Server) raceID(code string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raceIDs[code]
}
