package db

import (
	"fmt"
	"time"
)

func (d *DB) UpsertRoom(code, name string, isPrivate bool, ownerID string) error {
	_, err := d.conn.Exec(`
		INSERT INTO rooms (code, name, is_private, owner_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET name = $2, is_private = $3, owner_id = $4
	`, code, name, isPrivate, ownerID)
	if err != nil {
		return fmt.Errorf("upserting room: %w", err)
	}
	return nil
}

func (d *DB) UpsertPlayer(id, name, roomCode string) error {
	_, err := d.conn.Exec(`
		INSERT INTO players (id, name, room_code)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (id) DO UPDATE SET name = $2, room_code = NULLIF($3, '')
	`, id, name, roomCode)
	if err != nil {
		return fmt.Errorf("upserting player: %w", err)
	}
	return nil
}

// CreateRace records a race at its start and returns the row id that
// result and progress records attach to.
func (d *DB) CreateRace(roomCode, text string, startedAt time.Time, durationMs int) (string, error) {
	var id string
	err := d.conn.QueryRow(`
		INSERT INTO races (room_code, text, started_at, duration_ms)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, roomCode, text, startedAt, durationMs).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating race: %w", err)
	}
	return id, nil
}

func (d *DB) EndRace(raceID string) error {
	_, err := d.conn.Exec(`
		UPDATE races SET ended_at = now() WHERE id = $1
	`, raceID)
	if err != nil {
		return fmt.Errorf("ending race: %w", err)
	}
	return nil
}

func (d *DB) AddRaceResult(raceID, playerID string, rank, wpm, progress int, isFinished bool, finishTime *time.Time) error {
	_, err := d.conn.Exec(`
		INSERT INTO race_results (race_id, player_id, rank, wpm, progress, is_finished, finish_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (race_id, player_id) DO UPDATE
		SET rank = $3, wpm = $4, progress = $5, is_finished = $6, finish_time = $7
	`, raceID, playerID, rank, wpm, progress, isFinished, finishTime)
	if err != nil {
		return fmt.Errorf("adding race result: %w", err)
	}
	return nil
}
