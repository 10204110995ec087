package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"paxdash/internal/cache"
	"paxdash/internal/config"
	"paxdash/internal/dashboard"
	"paxdash/internal/server"
	"paxdash/internal/storage"
	"paxdash/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	// Context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	app := &cli.App{
		Name:  "paxdash",
		Usage: "passenger boarding dashboard",
		Commands: []*cli.Command{
			serveCommand(cfg, logger),
			importCommand(cfg, logger),
			summaryCommand(cfg, logger),
		},
		DefaultCommand: "serve",
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func dataFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "data", Value: cfg.DataPath, Usage: "boarding export file or glob"},
		&cli.StringFlag{Name: "db", Value: cfg.DBPath, Usage: "SQLite database path"},
	}
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("data") {
		cfg.DataPath = c.String("data")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("source") {
		cfg.Source = c.String("source")
	}
	return cfg.Validate()
}

func serveCommand(cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web dashboard",
		Flags: append(dataFlags(cfg),
			&cli.IntFlag{Name: "port", Value: cfg.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "source", Value: cfg.Source, Usage: "where to read boardings from: csv or sqlite"},
		),
		Action: func(c *cli.Context) error {
			if err := applyFlags(c, cfg); err != nil {
				return err
			}
			ctx := c.Context

			vc := cache.New(ctx, cache.Options{
				Size:          cfg.CacheSize,
				TTL:           cfg.CacheTTL,
				RedisAddr:     cfg.RedisAddr,
				RedisPassword: cfg.RedisPassword,
				RedisDB:       cfg.RedisDB,
			}, logger)
			srv := server.New(cfg, web.Static(), vc, logger)

			return serve(ctx, srv, func(ctx context.Context) (*dashboard.Dataset, error) {
				return loadDataset(ctx, cfg, logger)
			}, logger)
		},
	}
}

func importCommand(cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "load boarding exports into the SQLite database",
		Flags: dataFlags(cfg),
		Action: func(c *cli.Context) error {
			if err := applyFlags(c, cfg); err != nil {
				return err
			}
			return importData(c.Context, cfg, logger)
		},
	}
}

func summaryCommand(cfg *config.Config, logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "print the dashboard view as a table",
		Flags: append(dataFlags(cfg),
			&cli.StringFlag{Name: "source", Value: cfg.Source, Usage: "where to read boardings from: csv or sqlite"},
			&cli.StringFlag{Name: "vehicle", Value: dashboard.AllVehicles},
			&cli.StringFlag{Name: "route", Value: dashboard.AllRoutes},
			&cli.StringFlag{Name: "day", Value: dashboard.AllDays},
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD; omit for the per-date view"},
		),
		Action: func(c *cli.Context) error {
			if err := applyFlags(c, cfg); err != nil {
				return err
			}
			ds, err := loadDataset(c.Context, cfg, logger)
			if err != nil {
				return err
			}
			v := dashboard.Compute(ds, dashboard.State{
				Vehicle: c.String("vehicle"),
				Route:   c.String("route"),
				Day:     c.String("day"),
				Date:    c.String("date"),
			})
			if err := writeSummary(c.App.Writer, ds.Source, v); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			return nil
		},
	}
}

// serve runs srv while load fills it in the background; the server shows a
// loading page meanwhile. A load failure shuts the server down and is
// returned.
func serve(ctx context.Context, srv *server.Server, load func(context.Context) (*dashboard.Dataset, error), logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loadErr := make(chan error, 1)
	go func() {
		ds, err := load(ctx)
		if err != nil {
			loadErr <- err
			cancel()
			return
		}
		srv.SetDataset(ds)
		logger.Info("dataset ready",
			"rows", len(ds.Totals),
			"vehicles", len(ds.Options.Vehicles)-1,
			"routes", len(ds.Options.Routes)-1,
		)
	}()

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	select {
	case err := <-loadErr:
		return fmt.Errorf("load dataset: %w", err)
	default:
		return nil
	}
}

// openDB opens the configured database for import or the sqlite source.
func openDB(cfg *config.Config, logger *slog.Logger) (*storage.DB, error) {
	db, err := storage.Open(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
