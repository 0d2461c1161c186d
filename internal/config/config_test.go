package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := GetDefaults()
	want.History.Path = cfg.History.Path
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if filepath.Base(cfg.History.Path) != "history.db" {
		t.Errorf("expected default history path, got %q", cfg.History.Path)
	}
	if cfg.Filters.Debounce() != 300*time.Millisecond || cfg.Filters.CloseDelay() != 100*time.Millisecond {
		t.Errorf("unexpected durations %v %v", cfg.Filters.Debounce(), cfg.Filters.CloseDelay())
	}
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
filters:
  query_key: f
  debounce_ms: 150
  shallow: false
data:
  source: postgres
database:
  host: db.local
  table: items
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("KLINH_FILTERS_THROTTLE_MS", "75")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("table", "products", "")
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--table", "catalog_items"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Filters.QueryKey != "f" || cfg.Filters.DebounceMs != 150 || cfg.Filters.Shallow {
		t.Errorf("file values not applied: %+v", cfg.Filters)
	}
	if cfg.Filters.ThrottleMs != 75 {
		t.Errorf("expected env override 75, got %d", cfg.Filters.ThrottleMs)
	}
	if cfg.Database.Table != "catalog_items" {
		t.Errorf("expected flag override, got %q", cfg.Database.Table)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected unset flag to keep default, got %q", cfg.Logging.Level)
	}
	if cfg.Data.Source != "postgres" || cfg.Database.Host != "db.local" || cfg.Database.Port != 5432 {
		t.Errorf("unexpected data/database config %+v %+v", cfg.Data, cfg.Database)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("filters: [unclosed"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("expected error for malformed config")
	}
}
