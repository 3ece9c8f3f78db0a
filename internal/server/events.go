package server

import (
	"log"
	"time"

	"github.com/The-Coder-x/TypeWar/internal/game"
	"github.com/The-Coder-x/TypeWar/internal/metrics"
	"github.com/The-Coder-x/TypeWar/internal/players"
	"github.com/The-Coder-x/TypeWar/internal/protocol"
	"github.com/The-Coder-x/TypeWar/internal/rooms"
)

// The engine's notification sink: fan each race event out to the
// room's connections and mirror it to the database when configured.

func (s *Server) GameStarted(room *rooms.Room, text string, startedAt time.Time) {
	metrics.RacesStarted.Inc()

	data, err := protocol.GameStarted(room.Info(), text, startedAt)
	if err != nil {
		log.Printf("[Engine] encoding gameStarted: %v\n", err)
		return
	}
	if h := s.hubOf(room.Code); h != nil {
		h.Broadcast(data)
	}

	if s.DB != nil {
		raceID, err := s.DB.CreateRace(room.Code, text, startedAt, int(s.Engine.Duration().Milliseconds()))
		if err != nil {
			log.Printf("[DB] CreateRace error: %v\n", err)
		} else {
			s.setRaceID(room.Code, raceID)
		}
	}
}

func (s *Server) ProgressUpdated(room *rooms.Room, roster []players.Player) {
	metrics.ProgressUpdates.Inc()

	data, err := protocol.ProgressUpdate(roster)
	if err != nil {
		log.Printf("[Engine] encoding progressUpdate: %v\n", err)
		return
	}
	if h := s.hubOf(room.Code); h != nil {
		h.Broadcast(data)
	}
}

func (s *Server) GameEnded(room *rooms.Room, standings []game.Standing) {
	metrics.RacesFinished.Inc()

	data, err := protocol.GameEnded(standings)
	if err != nil {
		log.Printf("[Engine] encoding gameEnded: %v\n", err)
		return
	}
	if h := s.hubOf(room.Code); h != nil {
		h.Broadcast(data)
	}

	if s.DB == nil {
		return
	}
	raceID := s.raceID(room.Code)
	if raceID == "" {
		return
	}
	if err := s.DB.EndRace(raceID); err != nil {
		log.Printf("[DB] EndRace error: %v\n", err)
	}
	for _, st := range standings {
		var finishTime *time.Time
		if !st.Player.FinishTime.IsZero() {
			t := st.Player.FinishTime
			finishTime = &t
		}
		err := s.DB.AddRaceResult(raceID, st.Player.ID, st.Rank, st.Player.WPM, st.Player.Progress, st.Player.IsFinished, finishTime)
		if err != nil {
			log.Printf("[DB] AddRaceResult error: %v\n", err)
		}
	}
}
