package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paxdash/internal/boarding"
	"paxdash/internal/config"
	"paxdash/internal/dashboard"
)

// loadDataset reads derived records from the configured source and
// aggregates them.
func loadDataset(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dashboard.Dataset, error) {
	start := time.Now()

	var records []boarding.Derived
	var source string
	switch cfg.Source {
	case config.SourceSQLite:
		db, err := openDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		if !db.HasData(ctx) {
			return nil, fmt.Errorf("no boardings in %s: run paxdash import first", cfg.DBPath)
		}
		records, err = db.Boardings(ctx)
		if err != nil {
			return nil, fmt.Errorf("read boardings: %w", err)
		}
		info, err := db.LastImport(ctx)
		if err != nil {
			return nil, fmt.Errorf("read import metadata: %w", err)
		}
		source = fmt.Sprintf("sqlite %s: %s", cfg.DBPath, info)
	default:
		raw, err := boarding.LoadGlob(ctx, cfg.DataPath, logger)
		if err != nil {
			return nil, fmt.Errorf("load boardings: %w", err)
		}
		records = boarding.Derive(raw)
		source = "csv " + cfg.DataPath
	}

	ds := dashboard.NewDataset(boarding.Aggregate(records))
	ds.Source = source
	logger.Info("dataset loaded",
		"source", source,
		"records", len(records),
		"totals", len(ds.Totals),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return ds, nil
}

// importData loads the CSV exports and replaces the database contents.
func importData(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	raw, err := boarding.LoadGlob(ctx, cfg.DataPath, logger)
	if err != nil {
		return fmt.Errorf("load boardings: %w", err)
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ReplaceBoardings(ctx, boarding.Derive(raw), cfg.DataPath); err != nil {
		return fmt.Errorf("import boardings: %w", err)
	}
	return nil
}
