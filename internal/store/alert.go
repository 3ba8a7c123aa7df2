package store

import (
	"database/sql"
	"errors"
	"time"
)

// Alert represents one drowsiness alert stored in the database: raised
// when the monitor enters the drowsy state, cleared on recovery.
type Alert struct {
	ID            string
	SessionID     string
	Seq           int
	RaisedAt      time.Time
	ClearedAt     *time.Time
	PeakLowFrames int
	MinEAR        float64
}

// AlertRepository provides CRUD operations for alerts.
type AlertRepository struct {
	db *sql.DB
}

// Alerts returns the alert repository for this store.
func (s *Store) Alerts() *AlertRepository {
	return &AlertRepository{db: s.db}
}

// Create inserts a newly raised alert into the database.
func (r *AlertRepository) Create(a *Alert) error {
	if a.RaisedAt.IsZero() {
		a.RaisedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO alerts (id, session_id, seq, raised_at, peak_low_frames, min_ear)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.SessionID, a.Seq, a.RaisedAt, a.PeakLowFrames, a.MinEAR,
	)
	return err
}

// Clear marks an alert as cleared and records the extremes observed
// while it was active.
func (r *AlertRepository) Clear(id string, peakLowFrames int, minEAR float64) error {
	result, err := r.db.Exec(
		`UPDATE alerts SET cleared_at = ?, peak_low_frames = ?, min_ear = ? WHERE id = ?`,
		time.Now(), peakLowFrames, minEAR, id,
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

// GetByID retrieves an alert by its ID.
func (r *AlertRepository) GetByID(id string) (*Alert, error) {
	a := &Alert{}
	var clearedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, session_id, seq, raised_at, cleared_at, peak_low_frames, min_ear
		 FROM alerts WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.SessionID, &a.Seq, &a.RaisedAt, &clearedAt, &a.PeakLowFrames, &a.MinEAR)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if clearedAt.Valid {
		a.ClearedAt = &clearedAt.Time
	}
	return a, nil
}

// ListBySession retrieves all alerts for a session in raise order.
func (r *AlertRepository) ListBySession(sessionID string) ([]*Alert, error) {
	return r.list(
		`SELECT id, session_id, seq, raised_at, cleared_at, peak_low_frames, min_ear
		 FROM alerts WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
}

// ListRecent retrieves the most recently raised alerts across sessions.
func (r *AlertRepository) ListRecent(limit int) ([]*Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(
		`SELECT id, session_id, seq, raised_at, cleared_at, peak_low_frames, min_ear
		 FROM alerts ORDER BY raised_at DESC LIMIT ?`,
		limit,
	)
}

func (r *AlertRepository) list(query string, args ...any) ([]*Alert, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*Alert
	for rows.Next() {
		a := &Alert{}
		var clearedAt sql.NullTime

		if err := rows.Scan(&a.ID, &a.SessionID, &a.Seq, &a.RaisedAt, &clearedAt, &a.PeakLowFrames, &a.MinEAR); err != nil {
			return nil, err
		}
		if clearedAt.Valid {
			a.ClearedAt = &clearedAt.Time
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return alerts, nil
}
