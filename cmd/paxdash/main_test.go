package main

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"paxdash/internal/boarding"
	"paxdash/internal/cache"
	"paxdash/internal/config"
	"paxdash/internal/dashboard"
	"paxdash/internal/server"
)

func testServer() *server.Server {
	cfg := config.Defaults()
	cfg.Port = 0 // any free port
	return server.New(cfg, fstest.MapFS{}, cache.NewMemory(1, time.Minute), testLogger())
}

func waitServe(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
		return nil
	}
}

func TestServe_LoadFailureShutsDown(t *testing.T) {
	errLoad := errors.New("no such export")
	done := make(chan error, 1)
	go func() {
		done <- serve(context.Background(), testServer(), func(context.Context) (*dashboard.Dataset, error) {
			return nil, errLoad
		}, testLogger())
	}()

	if err := waitServe(t, done); !errors.Is(err, errLoad) {
		t.Errorf("serve = %v, want the load error", err)
	}
}

func TestServe_CancelAfterLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loaded := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, testServer(), func(context.Context) (*dashboard.Dataset, error) {
			defer close(loaded)
			return dashboard.NewDataset([]boarding.Total{}), nil
		}, testLogger())
	}()

	<-loaded
	cancel()
	if err := waitServe(t, done); err != nil {
		t.Errorf("serve = %v, want nil after cancellation", err)
	}
}
