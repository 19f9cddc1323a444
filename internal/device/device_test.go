package device

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsAudioFile(t *testing.T) {
	audio := []string{"song.mp3", "track.FLAC", "a.wav", "b.m4a", "c.aac", "d.ogg", "e.aiff"}
	for _, name := range audio {
		if !IsAudioFile(name) {
			t.Errorf("IsAudioFile(%q) = false, want true", name)
		}
	}

	other := []string{"cover.jpg", "notes.txt", "song.mp3.bak", "noext", ".mp3.swp"}
	for _, name := range other {
		if IsAudioFile(name) {
			t.Errorf("IsAudioFile(%q) = true, want false", name)
		}
	}
}

func TestListDirOrdering(t *testing.T) {
	base := t.TempDir()
	for _, dir := range []string{"zebra", "Alpha"} {
		if err := os.Mkdir(filepath.Join(base, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, file := range []string{"track.mp3", "Cover.jpg", "beta.flac"} {
		if err := os.WriteFile(filepath.Join(base, file), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	entries, err := ListDir(base, "")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}

	// Directories first, then files, case-insensitively by name.
	want := []string{"Alpha", "zebra", "beta.flac", "Cover.jpg", "track.mp3"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entries[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	for _, e := range entries {
		switch e.Name {
		case "track.mp3", "beta.flac":
			if !e.IsAudio {
				t.Errorf("%s not flagged as audio", e.Name)
			}
		default:
			if e.IsAudio {
				t.Errorf("%s wrongly flagged as audio", e.Name)
			}
		}
	}
}

func TestListDirRelative(t *testing.T) {
	base := t.TempDir()
	sub := filepath.Join(base, "album")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "track.mp3"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := ListDir(base, "album")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "track.mp3" {
		t.Errorf("entries = %v", entries)
	}
}

func TestListDirRejectsTraversal(t *testing.T) {
	if _, err := ListDir(t.TempDir(), "../escape"); err == nil {
		t.Fatal("expected error for traversal")
	}
}

func TestListDirMissing(t *testing.T) {
	if _, err := ListDir(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDevicesEqual(t *testing.T) {
	a := []Device{
		{Name: "usb", Path: "/mnt/usb", Type: "removable", Removable: true},
		{Name: "data", Path: "/mnt/data", Type: "fixed"},
	}
	b := []Device{a[1], a[0]} // order must not matter

	if !devicesEqual(a, b) {
		t.Error("reordered lists reported unequal")
	}

	c := append([]Device{}, a...)
	c[0].Type = "fixed"
	if devicesEqual(a, c) {
		t.Error("changed device reported equal")
	}

	if devicesEqual(a, a[:1]) {
		t.Error("different lengths reported equal")
	}
	if !devicesEqual(nil, nil) {
		t.Error("nil lists reported unequal")
	}
}
