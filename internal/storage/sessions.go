package storage

import (
	"fmt"
	"time"
)

// Session is one run of the client.
type Session struct {
	ID         int64
	Driver     string
	Simulation string
	DataDir    string
	Frames     int
	Duration   time.Duration
	ExitCode   int
	CreatedAt  time.Time
}

// SaveSession records a finished session and returns its ID.
func (s *Store) SaveSession(sess Session) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (driver, simulation, data_dir, frames, duration_ms, exit_code)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.Driver, sess.Simulation, sess.DataDir, sess.Frames, sess.Duration.Milliseconds(), sess.ExitCode,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions returns the latest sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, driver, simulation, data_dir, frames, duration_ms, exit_code, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.Driver, &sess.Simulation, &sess.DataDir,
			&sess.Frames, &durationMS, &sess.ExitCode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Duration = time.Duration(durationMS) * time.Millisecond
		sess.CreatedAt = parseTime(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// SessionStats contains aggregated statistics over all sessions.
type SessionStats struct {
	Count       int
	Failures    int
	TotalFrames int64
	TotalTime   time.Duration
	LastRun     time.Time
}

// Stats aggregates the session history.
func (s *Store) Stats() (*SessionStats, error) {
	stats := &SessionStats{}
	var totalMS int64
	var lastRun any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(exit_code != 0), 0), COALESCE(SUM(frames), 0),
		        COALESCE(SUM(duration_ms), 0), MAX(created_at)
		 FROM sessions`,
	).Scan(&stats.Count, &stats.Failures, &stats.TotalFrames, &totalMS, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	stats.TotalTime = time.Duration(totalMS) * time.Millisecond
	stats.LastRun = parseTime(lastRun)
	return stats, nil
}
