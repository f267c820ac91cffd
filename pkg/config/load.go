package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration for the image cache demo: how to fetch
// bytes, how many decoded images the demo keeps resident, and how the
// terminal renderer should present decoded images.
type Config struct {
	Resource ResourceConfig `toml:"resource"`
	Render   RenderConfig   `toml:"render"`
	Demo     DemoConfig     `toml:"demo"`
}

// ResourceConfig controls the HTTP-backed resource service.
type ResourceConfig struct {
	// RequestTimeout bounds a single URL's fetch. Zero means no timeout.
	RequestTimeout Duration `toml:"request_timeout"`
}

// RenderConfig controls the terminal image renderer.
type RenderConfig struct {
	// Protocol overrides terminal protocol auto-detection: "auto",
	// "kitty", "iterm2", "sixel", or "halfblocks".
	Protocol string `toml:"protocol"`
	// MaxCacheSizeMB bounds the rendered-escape-sequence output cache.
	MaxCacheSizeMB int `toml:"max_cache_size_mb"`
}

// DemoConfig controls the cmd/imagecache-demo binary.
type DemoConfig struct {
	// MaxResident bounds how many decoded images the demo's
	// imagecache.SizeBoundedEvictor keeps resident. 0 disables eviction.
	MaxResident int `toml:"max_resident"`
	// PollInterval is how often the TUI polls GetImage for in-flight URLs.
	PollInterval Duration `toml:"poll_interval"`
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/imagecache/config.toml
//  2. ~/.config/imagecache/config.toml
//
// If no file exists, returns DefaultConfig().
func Load() (*Config, error) {
	paths := configSearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	return DefaultConfig(), nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Resource: ResourceConfig{
			RequestTimeout: Duration{30 * time.Second},
		},
		Render: RenderConfig{
			Protocol:       "auto",
			MaxCacheSizeMB: 32,
		},
		Demo: DemoConfig{
			MaxResident:  0,
			PollInterval: Duration{100 * time.Millisecond},
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IMAGECACHE_PROTOCOL"); v != "" {
		cfg.Render.Protocol = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "imagecache", "config.toml"))

	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "imagecache", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}
