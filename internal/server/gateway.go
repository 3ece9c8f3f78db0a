package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"github.com/The-Coder-x/TypeWar/internal/db"
	"github.com/The-Coder-x/TypeWar/internal/hub"
	"github.com/The-Coder-x/TypeWar/internal/metrics"
	"github.com/The-Coder-x/TypeWar/internal/protocol"
	"github.com/The-Coder-x/TypeWar/internal/rooms"
)

// session is the per-connection state the gateway tracks: the player
// the connection currently speaks for and the room it sits in. A
// connection outlives room membership, so both can be empty.
type session struct {
	send     chan []byte
	client   *hub.Client
	playerID string
	room     *rooms.Room
}

func newSession() *session {
	sess := &session{send: make(chan []byte, 64)}
	sess.client = &hub.Client{Send: sess.send}
	return sess
}

// push enqueues an event for this connection only. Non-blocking: a
// stalled connection drops events rather than stalling the room.
func (sess *session) push(data []byte) {
	select {
	case sess.send <- data:
	default:
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		log.Printf("[Gateway] accept: %v\n", err)
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	metrics.ClientsConnected.Inc()
	defer metrics.ClientsConnected.Dec()

	ctx := r.Context()
	sess := newSession()
	sess.client.Conn = conn
	go sess.client.WritePump(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		s.dispatch(sess, data)
	}

	// Connection loss is a lifecycle event, not an error: synthesize a
	// leave so departure handling is uniform.
	s.leaveCurrentRoom(sess)
}

// dispatch routes one inbound frame by its message kind.
func (s *Server) dispatch(sess *session, raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	switch env.Type {
	case protocol.MsgCreateRoom:
		s.handleCreateRoom(sess, env.Payload)
	case protocol.MsgJoinRoom:
		s.handleJoinRoom(sess, env.Payload)
	case protocol.MsgStartGame:
		s.handleStartGame(sess)
	case protocol.MsgUpdateProgress:
		s.handleUpdateProgress(sess, env.Payload)
	case protocol.MsgLeaveRoom:
		s.leaveCurrentRoom(sess)
	default:
		s.sendError(sess, fmt.Errorf("%w: unknown message type %q", protocol.ErrValidation, env.Type))
	}
}

func (s *Server) sendError(sess *session, err error) {
	data, mErr := protocol.ErrorEvent(err.Error())
	if mErr != nil {
		log.Printf("[Gateway] encoding error event: %v\n", mErr)
		return
	}
	sess.push(data)
}

func (s *Server) handleCreateRoom(sess *session, raw json.RawMessage) {
	p, err := protocol.DecodeCreateRoom(raw)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	if sess.room != nil {
		s.sendError(sess, fmt.Errorf("%w: leave your current room first", rooms.ErrInvalidState))
		return
	}

	player := s.Players.Add(uuid.New().String(), p.PlayerName)
	room, err := s.Rooms.Create(p.RoomName, p.IsPrivate, player)
	if err != nil {
		s.Players.Remove(player.ID)
		s.sendError(sess, err)
		return
	}

	h := s.addHub(room.Code)
	sess.playerID = player.ID
	sess.room = room
	sess.client.PlayerID = player.ID
	h.Register(sess.client)
	metrics.RoomsActive.Inc()
	log.Printf("[Gateway] room %s created by %s\n", room.Code, player.ID)

	s.mirrorRoom(room)

	data, err := protocol.RoomCreated(room.Info(), player.ID)
	if err != nil {
		log.Printf("[Gateway] encoding roomCreated: %v\n", err)
		return
	}
	h.SendTo(player.ID, data)
}

func (s *Server) handleJoinRoom(sess *session, raw json.RawMessage) {
	p, err := protocol.DecodeJoinRoom(raw)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	if sess.room != nil {
		s.sendError(sess, fmt.Errorf("%w: leave your current room first", rooms.ErrInvalidState))
		return
	}

	player := s.Players.Add(uuid.New().String(), p.PlayerName)
	room, err := s.Rooms.Join(p.RoomCode, player)
	if err != nil {
		s.Players.Remove(player.ID)
		s.sendError(sess, err)
		return
	}

	sess.playerID = player.ID
	sess.room = room
	sess.client.PlayerID = player.ID
	h := s.hubOf(room.Code)
	if h != nil {
		h.Register(sess.client)
	}
	log.Printf("[Gateway] player %s joined room %s\n", player.ID, room.Code)

	s.mirrorRoom(room)

	info := room.Info()
	if data, err := protocol.RoomJoined(info, player.ID); err == nil {
		if h == nil || !h.SendTo(player.ID, data) {
			sess.push(data)
		}
	}
	if h != nil {
		if data, err := protocol.PlayerJoined(info); err == nil {
			h.Broadcast(data)
		}
	}
}

func (s *Server) handleStartGame(sess *session) {
	if sess.room == nil {
		s.sendError(sess, rooms.ErrNotInRoom)
		return
	}
	if err := s.Engine.Start(sess.room, sess.playerID); err != nil {
		s.sendError(sess, err)
	}
}

func (s *Server) handleUpdateProgress(sess *session, raw json.RawMessage) {
	p, err := protocol.DecodeUpdateProgress(raw)
	if err != nil {
		s.sendError(sess, err)
		return
	}
	if sess.room == nil {
		s.sendError(sess, rooms.ErrNotInRoom)
		return
	}

	upd, err := s.Engine.UpdateProgress(sess.room, sess.playerID, p.WPM, p.Progress)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	// The mirror records the values the room stored, not the raw report.
	if s.ProgressBuffer != nil {
		if raceID := s.raceID(sess.room.Code); raceID != "" {
			select {
			case s.ProgressBuffer <- db.ProgressEvent{
				RaceID:     raceID,
				PlayerID:   sess.playerID,
				WPM:        upd.WPM,
				Progress:   upd.Progress,
				ReportedAt: time.Now(),
			}:
			default:
				log.Println("[DB] Progress buffer full, dropping event")
			}
		}
	}
}

// leaveCurrentRoom handles both explicit leaveRoom messages and
// connection loss. The player record is removed either way.
func (s *Server) leaveCurrentRoom(sess *session) {
	room := sess.room
	playerID := sess.playerID
	sess.room = nil
	sess.playerID = ""

	if room == nil {
		return
	}

	if h := s.hubOf(room.Code); h != nil {
		h.Unregister(playerID)
	}
	// Clear the departing player's seat in the mirror while the live
	// record still exists.
	if s.DB != nil {
		if p := s.Players.Get(playerID); p != nil {
			if err := s.DB.UpsertPlayer(p.ID, p.Name, ""); err != nil {
				log.Printf("[DB] UpsertPlayer error: %v\n", err)
			}
		}
	}
	removal, ok := s.Rooms.RemovePlayer(room, playerID)
	s.Players.Remove(playerID)
	if !ok {
		return
	}
	log.Printf("[Gateway] player %s left room %s\n", playerID, room.Code)

	if removal.Destroyed {
		if h := s.hubOf(room.Code); h != nil {
			if data, err := protocol.RoomDestroyed("room " + room.Code + " was closed"); err == nil {
				h.Broadcast(data)
			}
		}
		s.dropHub(room.Code)
		metrics.RoomsActive.Dec()
		log.Printf("[Gateway] room %s destroyed\n", room.Code)
		return
	}

	if h := s.hubOf(room.Code); h != nil {
		if data, err := protocol.PlayerLeft(room.Info()); err == nil {
			h.Broadcast(data)
		}
	}

	// The departure may leave only finished players behind mid-race.
	s.Engine.CheckAllFinished(room)
}

func (s *Server) mirrorRoom(room *rooms.Room) {
	if s.DB == nil {
		return
	}
	info := room.Info()
	if err := s.DB.UpsertRoom(info.Code, info.Name, info.IsPrivate, info.OwnerID); err != nil {
		log.Printf("[DB] UpsertRoom error: %v\n", err)
	}
	for _, p := range info.Players {
		if err := s.DB.UpsertPlayer(p.ID, p.Name, info.Code); err != nil {
			log.Printf("[DB] UpsertPlayer error: %v\n", err)
		}
	}
}
