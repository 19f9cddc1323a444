package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Transfer TransferConfig `yaml:"transfer"`
	Library  LibraryConfig  `yaml:"library"`
	Player   PlayerConfig   `yaml:"player"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Listen string `yaml:"listen"`
	DBPath string `yaml:"db_path"`
}

// TransferConfig holds default transfer behavior
type TransferConfig struct {
	VerifyByDefault  bool     `yaml:"verify_by_default"`
	ArchiveByDefault bool     `yaml:"archive_by_default"`
	Excludes         []string `yaml:"excludes"`
}

// LibraryConfig holds library locations and browse history
type LibraryConfig struct {
	Root               string   `yaml:"root"`
	RecentLocations    []string `yaml:"recent_locations"`
	FavoriteLocations  []string `yaml:"favorite_locations"`
	MaxRecentLocations int      `yaml:"max_recent_locations"`
}

// PlayerConfig holds playback settings persisted for the player shim
type PlayerConfig struct {
	Volume            float64 `yaml:"volume"`
	RepeatMode        string  `yaml:"repeat_mode"` // "off", "single", "all"
	Shuffle           bool    `yaml:"shuffle"`
	Crossfade         bool    `yaml:"crossfade"`
	CrossfadeDuration float64 `yaml:"crossfade_duration"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: "127.0.0.1:8710",
			DBPath: "",
		},
		Transfer: TransferConfig{
			VerifyByDefault:  true,
			ArchiveByDefault: false,
			Excludes:         nil,
		},
		Library: LibraryConfig{
			MaxRecentLocations: 10,
		},
		Player: PlayerConfig{
			Volume:            0.5,
			RepeatMode:        "off",
			Shuffle:           false,
			Crossfade:         false,
			CrossfadeDuration: 2.0,
		},
	}
}

// Load reads a config file from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config as YAML to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks field values that have a closed set of options
func (c *Config) Validate() error {
	switch c.Player.RepeatMode {
	case "off", "single", "all":
	default:
		return fmt.Errorf("invalid repeat_mode %q (expected off, single, or all)", c.Player.RepeatMode)
	}

	if c.Player.Volume < 0 || c.Player.Volume > 1 {
		return fmt.Errorf("volume must be between 0 and 1, got %v", c.Player.Volume)
	}

	if c.Library.MaxRecentLocations < 0 {
		return fmt.Errorf("max_recent_locations must be non-negative")
	}

	return nil
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() (string, error) {
	searchPaths := []string{
		"musicman.yaml",
		"/etc/musicman/musicman.yaml",
	}

	// Add user config path
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths,
			filepath.Join(home, ".config", "musicman", "musicman.yaml"),
		)
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", searchPaths)
}

// DefaultConfigPath returns the per-user location used by `config init`.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".config", "musicman", "musicman.yaml"), nil
}

// AddRecentLocation prepends a location to the recent list, deduplicating
// and capping at MaxRecentLocations.
func (c *Config) AddRecentLocation(path string) {
	recent := []string{path}
	for _, p := range c.Library.RecentLocations {
		if p != path {
			recent = append(recent, p)
		}
	}

	max := c.Library.MaxRecentLocations
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.Library.RecentLocations = recent
}
