// Package device enumerates mounted storage devices and watches for
// changes. Watching is a background polling loop; it shares no state with
// the transfer engine.
package device

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Kadajett/musicManager/internal/safety"
)

// Device describes one mounted filesystem usable as a transfer source or
// target.
type Device struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Type      string `json:"deviceType"` // "removable", "fixed", "network", "unknown"
	Removable bool   `json:"removable"`
}

// FileItem is a single entry in a directory listing.
type FileItem struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	IsDir   bool   `json:"is_dir"`
	IsAudio bool   `json:"is_audio"`
}

// audioExtensions are the file extensions surfaced as playable.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".aiff": true,
}

// IsAudioFile reports whether the filename has a known audio extension.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// ListDir lists the directory at base joined with the optional relative
// path, directories first, then files, case-insensitively by name. Audio
// files are flagged by extension.
func ListDir(base, rel string) ([]FileItem, error) {
	fullPath := base
	if rel != "" {
		var err error
		fullPath, err = safety.SafeJoinUnder(base, rel)
		if err != nil {
			return nil, fmt.Errorf("invalid relative path: %w", err)
		}
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("path does not exist: %s", fullPath)
	}

	dirEntries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var entries []FileItem
	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, FileItem{
			Name:    de.Name(),
			Path:    filepath.Join(fullPath, de.Name()),
			IsDir:   info.IsDir(),
			IsAudio: !info.IsDir() && IsAudioFile(de.Name()),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// Watcher polls the device list on an interval and emits the new list
// whenever it changes.
type Watcher struct {
	interval time.Duration
	logger   *slog.Logger
	events   chan []Device
	stop     chan struct{}
}

// NewWatcher creates a Watcher polling at the given interval.
func NewWatcher(interval time.Duration, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		interval: interval,
		logger:   logger,
		events:   make(chan []Device, 1),
		stop:     make(chan struct{}),
	}
}

// Events returns the channel device-list changes are delivered on. The
// channel is closed when the watcher stops.
func (w *Watcher) Events() <-chan []Device {
	return w.events
}

// Start begins the polling loop on a new goroutine.
func (w *Watcher) Start() {
	go w.run()
}

// Stop terminates the polling loop.
func (w *Watcher) Stop() {
	close(w.stop)
}

func (w *Watcher) run() {
	defer close(w.events)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	last, err := List()
	if err != nil {
		w.logger.Warn("initial device scan failed", "error", err)
	}

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			current, err := List()
			if err != nil {
				w.logger.Warn("device scan failed", "error", err)
				continue
			}
			if devicesEqual(last, current) {
				continue
			}
			last = current
			w.logger.Debug("device list changed", "count", len(current))

			// Drop the stale pending event, if any, so the channel always
			// carries the latest snapshot.
			select {
			case <-w.events:
			default:
			}
			select {
			case w.events <- current:
			case <-w.stop:
				return
			}
		}
	}
}

func devicesEqual(a, b []Device) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]Device, len(a))
	for _, d := range a {
		seen[d.Path] = d
	}
	for _, d := range b {
		if seen[d.Path] != d {
			return false
		}
	}
	return true
}
