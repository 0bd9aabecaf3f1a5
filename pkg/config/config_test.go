package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.UI.PageSize != 50 || cfg.Server.URL == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFromOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  url: http://ranking.internal:9000
ui:
  default_source: fanqie
  default_gender: male
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.URL != "http://ranking.internal:9000" {
		t.Errorf("url = %q", cfg.Server.URL)
	}
	if cfg.UI.DefaultSource != "fanqie" || cfg.UI.DefaultGender != "male" {
		t.Errorf("ui = %+v", cfg.UI)
	}
	// Unset numeric fields backfill to defaults, never zero.
	if cfg.UI.PageSize != 50 || cfg.UI.TrendDays != 30 {
		t.Errorf("backfill failed: %+v", cfg.UI)
	}
}

func TestLoadFromRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.UI.DefaultSource = "qimao"
	cfg.Export.Format = "svg"

	if err := SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}
	back, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.UI.DefaultSource != "qimao" || back.Export.Format != "svg" {
		t.Errorf("round trip lost fields: %+v", back)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != "/tmp/xdg-test/rd" {
		t.Errorf("ConfigDir = %q", got)
	}
}
