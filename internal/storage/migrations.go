package storage

import "fmt"

// migrate creates the boarding schema if it doesn't exist.
func (db *DB) migrate() error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	db.logger.Info("database migrations applied")
	return nil
}

var migrations = []string{
	// One row per export line, with the derived columns alongside.
	`CREATE TABLE IF NOT EXISTS boardings (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		vehicle             TEXT NOT NULL,
		vehicle_code        TEXT NOT NULL DEFAULT '',
		server_ts           INTEGER NOT NULL,
		trip_formatted_name TEXT NOT NULL,
		scheduled_time      TEXT NOT NULL DEFAULT '',
		boarding            INTEGER NOT NULL,
		route_id            TEXT NOT NULL,
		day_of_week         TEXT NOT NULL
	)`,

	// Import metadata (imported_at, source, rows)
	`CREATE TABLE IF NOT EXISTS import_metadata (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_boardings_ts ON boardings(server_ts)`,
	`CREATE INDEX IF NOT EXISTS idx_boardings_vehicle ON boardings(vehicle_code, route_id, day_of_week)`,
}
