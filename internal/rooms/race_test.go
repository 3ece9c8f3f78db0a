package rooms

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/The-Coder-x/TypeWar/internal/players"
)

func newRaceRoom(t *testing.T, playerIDs ...string) (*Registry, *Room) {
	t.Helper()
	s := NewRegistry()
	room, err := s.Create("Race", false, newTestPlayer(playerIDs[0], "Owner"))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range playerIDs[1:] {
		if _, err := s.Join(room.Code, newTestPlayer(id, "Player "+id)); err != nil {
			t.Fatal(err)
		}
	}
	return s, room
}

func TestStartRace_NonOwnerUnauthorized(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")

	if _, err := room.StartRace("p2", "text", time.Now()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestStartRace_InsufficientPlayers(t *testing.T) {
	_, room := newRaceRoom(t, "p1")

	if _, err := room.StartRace("p1", "text", time.Now()); !errors.Is(err, ErrInsufficientPlayers) {
		t.Errorf("error = %v, want ErrInsufficientPlayers", err)
	}
}

func TestStartRace_AlreadyPlaying(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")

	if _, err := room.StartRace("p1", "text", time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := room.StartRace("p1", "text", time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("duplicate start error = %v, want ErrInvalidState", err)
	}
}

func TestStartRace_ResetsPlayers(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")

	raceID, err := room.StartRace("p1", "first text", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := room.ApplyProgress("p1", 40, 100, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, ok := room.FinishRace(raceID); !ok {
		t.Fatal("FinishRace should succeed")
	}

	start := time.Now()
	if _, err := room.StartRace("p1", "second text", start); err != nil {
		t.Fatalf("restart from finished: %v", err)
	}

	info := room.Info()
	if info.State != StatePlaying {
		t.Errorf("State = %q, want %q", info.State, StatePlaying)
	}
	if info.CurrentText != "second text" {
		t.Errorf("CurrentText = %q, want %q", info.CurrentText, "second text")
	}
	if !info.GameStartTime.Equal(start) {
		t.Errorf("GameStartTime = %v, want %v", info.GameStartTime, start)
	}
	for _, p := range info.Players {
		if p.WPM != 0 || p.Progress != 0 || p.IsFinished || !p.FinishTime.IsZero() {
			t.Errorf("player %s not reset: %+v", p.ID, p)
		}
	}
}

func TestApplyProgress_RequiresPlaying(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")

	if _, err := room.ApplyProgress("p1", 40, 50, time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("error = %v, want ErrInvalidState", err)
	}
}

func TestApplyProgress_RequiresMembership(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")
	room.StartRace("p1", "text", time.Now())

	if _, err := room.ApplyProgress("outsider", 40, 50, time.Now()); !errors.Is(err, ErrNotInRoom) {
		t.Errorf("error = %v, want ErrNotInRoom", err)
	}
}

func TestApplyProgress_Clamps(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")
	room.StartRace("p1", "text", time.Now())

	tests := []struct {
		name                  string
		wpm, progress         int
		wantWPM, wantProgress int
	}{
		{"negative progress", 40, -5, 40, 0},
		{"progress past 100", 40, 150, 40, 100},
		{"negative wpm", -10, 50, 0, 50},
		{"in range", 72, 80, 72, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, err := room.ApplyProgress("p2", tt.wpm, tt.progress, time.Now())
			if err != nil {
				t.Fatal(err)
			}
			var got *players.Player
			for i := range upd.Players {
				if upd.Players[i].ID == "p2" {
					got = &upd.Players[i]
				}
			}
			if got == nil {
				t.Fatal("p2 missing from snapshot")
			}
			if got.WPM != tt.wantWPM {
				t.Errorf("WPM = %d, want %d", got.WPM, tt.wantWPM)
			}
			if got.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", got.Progress, tt.wantProgress)
			}
			// The update reports the same stored values
			if upd.WPM != tt.wantWPM || upd.Progress != tt.wantProgress {
				t.Errorf("stored wpm/progress = %d/%d, want %d/%d",
					upd.WPM, upd.Progress, tt.wantWPM, tt.wantProgress)
			}
		})
	}
}

func TestApplyProgress_FinishLatches(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")
	room.StartRace("p1", "text", time.Now())

	finishedAt := time.Now()
	upd, err := room.ApplyProgress("p2", 60, 100, finishedAt)
	if err != nil {
		t.Fatal(err)
	}
	if !upd.JustFinished {
		t.Error("first 100% report should latch the finish")
	}

	// A later report cannot unset the finish or move its time
	upd, err = room.ApplyProgress("p2", 55, 90, finishedAt.Add(time.Second))
	if err != nil {
		t.Fatal(err)
	}
	if upd.JustFinished {
		t.Error("JustFinished should only fire once")
	}
	for _, p := range upd.Players {
		if p.ID == "p2" {
			if !p.IsFinished {
				t.Error("IsFinished was unset by a later report")
			}
			if !p.FinishTime.Equal(finishedAt) {
				t.Errorf("FinishTime = %v, want %v", p.FinishTime, finishedAt)
			}
		}
	}
}

func TestApplyProgress_AllFinished(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")
	room.StartRace("p1", "text", time.Now())

	upd, _ := room.ApplyProgress("p1", 50, 100, time.Now())
	if upd.AllFinished {
		t.Error("AllFinished should be false with p2 unfinished")
	}
	upd, _ = room.ApplyProgress("p2", 45, 100, time.Now())
	if !upd.AllFinished {
		t.Error("AllFinished should be true once everyone finished")
	}
}

func TestFinishRace_StaleRaceID(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")

	first, _ := room.StartRace("p1", "text", time.Now())
	if _, ok := room.FinishRace(first); !ok {
		t.Fatal("FinishRace should succeed")
	}

	second, err := room.StartRace("p1", "text", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	// A timer left over from the first race must not end the second
	if _, ok := room.FinishRace(first); ok {
		t.Error("stale race id ended a newer race")
	}
	if room.State() != StatePlaying {
		t.Errorf("State = %q, want %q", room.State(), StatePlaying)
	}
	if _, ok := room.FinishRace(second); !ok {
		t.Error("current race id should finish the race")
	}
}

func TestFinishRace_Idempotent(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2")
	raceID, _ := room.StartRace("p1", "text", time.Now())

	if _, ok := room.FinishRace(raceID); !ok {
		t.Fatal("first FinishRace should succeed")
	}
	if _, ok := room.FinishRace(raceID); ok {
		t.Error("second FinishRace should report false")
	}
}

func TestFinishRace_AfterDestroy(t *testing.T) {
	s, room := newRaceRoom(t, "p1", "p2")
	raceID, _ := room.StartRace("p1", "text", time.Now())

	s.RemovePlayer(room, "p1")
	s.RemovePlayer(room, "p2")

	if _, ok := room.FinishRace(raceID); ok {
		t.Error("FinishRace should not fire against a destroyed room")
	}
}

func TestAllFinished_AfterDeparture(t *testing.T) {
	s, room := newRaceRoom(t, "p1", "p2", "p3")
	room.StartRace("p1", "text", time.Now())

	room.ApplyProgress("p1", 50, 100, time.Now())
	room.ApplyProgress("p2", 45, 100, time.Now())
	if _, ok := room.AllFinished(); ok {
		t.Fatal("AllFinished should be false while p3 races")
	}

	s.RemovePlayer(room, "p3")
	if _, ok := room.AllFinished(); !ok {
		t.Error("AllFinished should be true after the last unfinished player left")
	}
}

func TestApplyProgress_ConcurrentReports(t *testing.T) {
	_, room := newRaceRoom(t, "p1", "p2", "p3")
	room.StartRace("p1", "text", time.Now())

	var wg sync.WaitGroup
	for _, id := range []string{"p1", "p2", "p3"} {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id string, progress int) {
				defer wg.Done()
				room.ApplyProgress(id, 40, progress, time.Now())
			}(id, i*5)
		}
	}
	wg.Wait()

	info := room.Info()
	if len(info.Players) != 3 {
		t.Fatalf("player list corrupted: %d entries, want 3", len(info.Players))
	}
	for _, p := range info.Players {
		if p.Progress < 0 || p.Progress > 100 {
			t.Errorf("player %s progress out of range: %d", p.ID, p.Progress)
		}
	}
}
