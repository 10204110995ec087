package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAXDASH_CONFIG", "")
	t.Setenv("PAXDASH_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.Source != SourceCSV || cfg.CacheTTL != 10*time.Minute {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paxdash.yaml")
	yml := "port: 9000\nsource: sqlite\ncache_ttl: 90s\ndata_path: /data/*.csv\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAXDASH_CONFIG", path)
	t.Setenv("PAXDASH_PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100 (env overrides file)", cfg.Port)
	}
	if cfg.Source != SourceSQLite {
		t.Errorf("Source = %q, want sqlite", cfg.Source)
	}
	if cfg.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.CacheTTL)
	}
	if cfg.DataPath != "/data/*.csv" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing file", map[string]string{"PAXDASH_CONFIG": "/nonexistent/paxdash.yaml"}},
		{"bad source", map[string]string{"PAXDASH_CONFIG": "", "PAXDASH_SOURCE": "parquet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Load should fail")
			}
		})
	}
}

func TestEnvHelpers_IgnoreMalformed(t *testing.T) {
	t.Setenv("PAXDASH_TEST_INT", "abc")
	t.Setenv("PAXDASH_TEST_DUR", "soon")

	if got := envInt("PAXDASH_TEST_INT", 7); got != 7 {
		t.Errorf("envInt = %d, want fallback 7", got)
	}
	if got := envDuration("PAXDASH_TEST_DUR", time.Second); got != time.Second {
		t.Errorf("envDuration = %v, want fallback 1s", got)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (&Config{LogLevel: tt.in}).Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
