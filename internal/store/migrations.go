package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per detection session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			alerts INTEGER NOT NULL DEFAULT 0
		)`,

		// Alerts table - one row per drowsiness alert edge pair
		`CREATE TABLE IF NOT EXISTS alerts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			raised_at DATETIME NOT NULL,
			cleared_at DATETIME,
			peak_low_frames INTEGER NOT NULL DEFAULT 0,
			min_ear REAL NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_alerts_session_id ON alerts(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_raised_at ON alerts(raised_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
