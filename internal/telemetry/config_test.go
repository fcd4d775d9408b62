package telemetry

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_NewConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Enabled {
		t.Error("new config should have Enabled = false")
	}
	// UUID should be valid format (36 chars with hyphens)
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be UUID format, got %q", cfg.AnonymousID)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &Config{Enabled: true, AnonymousID: "test-uuid-1234"}

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, ConfigFileName))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.Enabled || loaded.AnonymousID != "test-uuid-1234" {
		t.Errorf("loaded = %+v, want enabled with the saved ID", loaded)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a corrupt file")
	}
}

func TestIsEnabled(t *testing.T) {
	t.Setenv("DO_NOT_TRACK", "")
	var nilCfg *Config
	if nilCfg.IsEnabled() {
		t.Error("nil config must be disabled")
	}
	if !(&Config{Enabled: true}).IsEnabled() {
		t.Error("enabled config should be enabled")
	}
	t.Setenv("DO_NOT_TRACK", "true")
	if (&Config{Enabled: true}).IsEnabled() {
		t.Error("DO_NOT_TRACK=true must disable telemetry")
	}
}
