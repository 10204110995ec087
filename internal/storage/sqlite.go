package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a SQLite database holding imported boarding exports.
type DB struct {
	*sql.DB
	logger *slog.Logger
}

// dsn opens in WAL mode. Write transactions take the lock when they begin.
func dsn(path string) string {
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", path)
}

// Open creates or opens the boardings database at path and applies migrations.
func Open(path string, logger *slog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database %s: %w", path, err)
	}

	db := &DB{DB: sqlDB, logger: logger.With("db", path)}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	info, err := db.LastImport(context.Background())
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	db.logger.Info("boardings database opened",
		"rows", info.Rows,
		"import_source", info.Source,
		"imported_at", info.ImportedAt,
	)
	return db, nil
}
