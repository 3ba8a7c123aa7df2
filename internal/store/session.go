package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one detection session stored in the database.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int64
	Alerts    int
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames, alerts) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Frames, sess.Alerts,
	)
	return err
}

// Finish marks a session as ended and records its final counters.
func (r *SessionRepository) Finish(id string, frames int64, alerts int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, alerts = ? WHERE id = ?`,
		time.Now(), frames, alerts, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, alerts FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.Alerts)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

// List retrieves sessions ordered by start time, most recent first.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames, alerts
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		if err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.Alerts); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
