package db

import (
	"fmt"
	"time"
)

// ProgressEvent is one accepted progress report, buffered and written
// in batches off the hot path.
type ProgressEvent struct {
	RaceID     string
	PlayerID   string
	WPM        int
	Progress   int
	ReportedAt time.Time
}

func (d *DB) BatchRecordProgress(events []ProgressEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO progress_events (race_id, player_id, wpm, progress, reported_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.RaceID, ev.PlayerID, ev.WPM, ev.Progress, ev.ReportedAt); err != nil {
			return fmt.Errorf("recording progress in batch: %w", err)
		}
	}

	return tx.Commit()
}
