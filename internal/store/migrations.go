package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Workouts (summary columns plus JSON blobs for the track and sensor series)
		`CREATE TABLE IF NOT EXISTS workouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			file_hash TEXT UNIQUE NOT NULL,
			filename TEXT NOT NULL,
			name TEXT,
			tags TEXT,
			workout_type TEXT,
			start_time DATETIME,
			end_time DATETIME,
			duration_seconds INTEGER,
			distance_meters REAL,
			total_calories INTEGER,
			avg_heart_rate INTEGER,
			max_heart_rate INTEGER,
			avg_speed_mps REAL,
			max_speed_mps REAL,
			elevation_gain_meters REAL,
			elevation_loss_meters REAL,
			gps_data TEXT,
			chart_data TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_workouts_start_time ON workouts(start_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_workouts_type ON workouts(workout_type)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
