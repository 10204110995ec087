package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"paxdash/internal/boarding"
)

// getMetadata retrieves a value from the import_metadata table.
func (db *DB) getMetadata(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM import_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// ImportInfo describes the last ReplaceBoardings run.
type ImportInfo struct {
	ImportedAt string // RFC 3339, UTC
	Source     string
	Rows       int
}

func (i ImportInfo) String() string {
	return fmt.Sprintf("%d rows from %s, imported %s", i.Rows, i.Source, i.ImportedAt)
}

// LastImport reads the metadata written by ReplaceBoardings.
func (db *DB) LastImport(ctx context.Context) (ImportInfo, error) {
	var info ImportInfo
	var err error
	if info.ImportedAt, err = db.getMetadata(ctx, "imported_at"); err != nil {
		return info, fmt.Errorf("get imported_at: %w", err)
	}
	if info.Source, err = db.getMetadata(ctx, "source"); err != nil {
		return info, fmt.Errorf("get source: %w", err)
	}
	rows, err := db.getMetadata(ctx, "rows")
	if err != nil {
		return info, fmt.Errorf("get rows: %w", err)
	}
	if rows != "" {
		if info.Rows, err = strconv.Atoi(rows); err != nil {
			return info, fmt.Errorf("parse rows %q: %w", rows, err)
		}
	}
	return info, nil
}

// ReplaceBoardings swaps the stored dataset for records in a single
// transaction. source names where the records came from.
func (db *DB) ReplaceBoardings(ctx context.Context, records []boarding.Derived, source string) error {
	start := time.Now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range []string{"boardings", "import_metadata"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
			return fmt.Errorf("clear %s: %w", t, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO boardings (vehicle, vehicle_code, server_ts, trip_formatted_name,
		 scheduled_time, boarding, route_id, day_of_week)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare boardings: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Vehicle, r.VehicleCode, r.ServerTS, r.TripName,
			r.ScheduledTime, r.Boarding, r.RouteID, r.DayOfWeek); err != nil {
			return fmt.Errorf("insert boarding %d: %w", i, err)
		}
	}

	meta := map[string]string{
		"imported_at": time.Now().UTC().Format(time.RFC3339),
		"source":      source,
		"rows":        strconv.Itoa(len(records)),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO import_metadata (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	db.logger.Info("boardings imported",
		"rows", len(records),
		"source", source,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Boardings returns every stored record in import order.
func (db *DB) Boardings(ctx context.Context) ([]boarding.Derived, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT vehicle, vehicle_code, server_ts, trip_formatted_name,
		       scheduled_time, boarding, route_id, day_of_week
		FROM boardings
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("boardings query: %w", err)
	}
	defer rows.Close()

	var out []boarding.Derived
	for rows.Next() {
		var d boarding.Derived
		if err := rows.Scan(&d.Vehicle, &d.VehicleCode, &d.ServerTS, &d.TripName,
			&d.ScheduledTime, &d.Boarding, &d.RouteID, &d.DayOfWeek); err != nil {
			return nil, fmt.Errorf("scan boarding: %w", err)
		}
		d.Time = boarding.Timestamp(d.ServerTS)
		out = append(out, d)
	}
	return out, rows.Err()
}

// HasData returns true if a dataset has been imported.
func (db *DB) HasData(ctx context.Context) bool {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boardings`).Scan(&count)
	return err == nil && count > 0
}
