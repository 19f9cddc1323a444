package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Listen != "127.0.0.1:8710" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if !cfg.Transfer.VerifyByDefault {
		t.Error("verify_by_default should default to true")
	}
	if cfg.Transfer.ArchiveByDefault {
		t.Error("archive_by_default should default to false")
	}
	if cfg.Player.RepeatMode != "off" {
		t.Errorf("repeat_mode = %q", cfg.Player.RepeatMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "musicman.yaml")
	content := `
server:
  listen: "0.0.0.0:9999"
transfer:
  verify_by_default: false
  excludes:
    - "**/.DS_Store"
player:
  volume: 0.8
  repeat_mode: all
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	if cfg.Server.Listen != "0.0.0.0:9999" {
		t.Errorf("listen = %q", cfg.Server.Listen)
	}
	if cfg.Transfer.VerifyByDefault {
		t.Error("verify_by_default not overridden")
	}
	if len(cfg.Transfer.Excludes) != 1 || cfg.Transfer.Excludes[0] != "**/.DS_Store" {
		t.Errorf("excludes = %v", cfg.Transfer.Excludes)
	}
	if cfg.Player.Volume != 0.8 {
		t.Errorf("volume = %v", cfg.Player.Volume)
	}
	// Untouched fields keep defaults.
	if cfg.Library.MaxRecentLocations != 10 {
		t.Errorf("max_recent_locations = %d", cfg.Library.MaxRecentLocations)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("player:\n  repeat_mode: sometimes\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Player.Volume = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("volume above 1 accepted")
	}

	cfg = DefaultConfig()
	cfg.Player.RepeatMode = "loop"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown repeat_mode accepted")
	}

	cfg = DefaultConfig()
	cfg.Library.MaxRecentLocations = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative max_recent_locations accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Library.Root = "/home/user/Music"
	cfg.Transfer.Excludes = []string{"**/*.tmp"}

	path := filepath.Join(t.TempDir(), "nested", "dir", "musicman.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if loaded.Library.Root != "/home/user/Music" {
		t.Errorf("root = %q", loaded.Library.Root)
	}
	if len(loaded.Transfer.Excludes) != 1 || loaded.Transfer.Excludes[0] != "**/*.tmp" {
		t.Errorf("excludes = %v", loaded.Transfer.Excludes)
	}
}

func TestAddRecentLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Library.MaxRecentLocations = 3

	cfg.AddRecentLocation("/a")
	cfg.AddRecentLocation("/b")
	cfg.AddRecentLocation("/c")
	cfg.AddRecentLocation("/b") // moves to front, no duplicate

	want := []string{"/b", "/c", "/a"}
	if len(cfg.Library.RecentLocations) != len(want) {
		t.Fatalf("recent = %v, want %v", cfg.Library.RecentLocations, want)
	}
	for i := range want {
		if cfg.Library.RecentLocations[i] != want[i] {
			t.Errorf("recent[%d] = %q, want %q", i, cfg.Library.RecentLocations[i], want[i])
		}
	}

	cfg.AddRecentLocation("/d")
	if len(cfg.Library.RecentLocations) != 3 {
		t.Errorf("recent not capped: %v", cfg.Library.RecentLocations)
	}
	if cfg.Library.RecentLocations[0] != "/d" {
		t.Errorf("newest not first: %v", cfg.Library.RecentLocations)
	}
}
