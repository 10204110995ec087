package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"paxdash/internal/cache"
	"paxdash/internal/config"
	"paxdash/internal/dashboard"
	"paxdash/internal/handler"
)

// Server is the HTTP server for the dashboard.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	logger *slog.Logger
	h      *handler.Handler
	ready  chan struct{} // closed when the dataset is available
}

// New creates a new Server with all routes registered. static is the asset
// tree served under /static/.
func New(cfg *config.Config, static fs.FS, c cache.Cache, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	h := handler.New(static, c, logger)

	s := &Server{mux: mux, cfg: cfg, logger: logger, h: h, ready: make(chan struct{})}

	// Static files, versioned URLs get immutable caching
	fileServer := http.FileServer(http.FS(static))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticCacheHandler(fileServer)))

	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("GET /api/view", h.ViewJSON)
	mux.HandleFunc("GET /export.csv", h.Export)
	mux.HandleFunc("GET /healthz", h.Healthz)

	return s
}

// SetDataset publishes the dataset and lets requests through.
func (s *Server) SetDataset(ds *dashboard.Dataset) {
	s.h.SetDataset(ds)
	select {
	case <-s.ready:
		// already closed
	default:
		close(s.ready)
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger, s.ready)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
