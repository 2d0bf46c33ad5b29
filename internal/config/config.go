package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/recents"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/resize"
	"gopkg.in/yaml.v3"
)

// Config is the effective panehost configuration.
type Config struct {
	// HostWidth and HostHeight size the daemon's virtual host surface.
	HostWidth  int `yaml:"host_width" env:"PANEHOST_HOST_WIDTH"`
	HostHeight int `yaml:"host_height" env:"PANEHOST_HOST_HEIGHT"`

	CascadeStep    int `yaml:"cascade_step" env:"PANEHOST_CASCADE_STEP"`
	CascadeAnchorX int `yaml:"cascade_anchor_x" env:"PANEHOST_CASCADE_ANCHOR_X"`
	CascadeAnchorY int `yaml:"cascade_anchor_y" env:"PANEHOST_CASCADE_ANCHOR_Y"`

	// TileGap is the spacing between tiled cells and around the grid.
	TileGap int `yaml:"tile_gap" env:"PANEHOST_TILE_GAP"`

	DefaultWidth  int `yaml:"default_width" env:"PANEHOST_DEFAULT_WIDTH"`
	DefaultHeight int `yaml:"default_height" env:"PANEHOST_DEFAULT_HEIGHT"`
	MinWidth      int `yaml:"min_width" env:"PANEHOST_MIN_WIDTH"`
	MinHeight     int `yaml:"min_height" env:"PANEHOST_MIN_HEIGHT"`

	// VisibleMargin is how much of a dragged window must stay on the host.
	VisibleMargin int `yaml:"visible_margin" env:"PANEHOST_VISIBLE_MARGIN"`
	HeaderHeight  int `yaml:"header_height" env:"PANEHOST_HEADER_HEIGHT"`

	// LivenessIntervalMS is the drag focus poll period in milliseconds.
	LivenessIntervalMS int `yaml:"liveness_interval_ms" env:"PANEHOST_LIVENESS_INTERVAL_MS"`
	ZIndexThreshold    int `yaml:"z_index_threshold" env:"PANEHOST_Z_INDEX_THRESHOLD"`

	RecentsLimit        int    `yaml:"recents_limit" env:"PANEHOST_RECENTS_LIMIT"`
	RecentsBackend      string `yaml:"recents_backend" env:"PANEHOST_RECENTS_BACKEND"`
	RecentsPath         string `yaml:"recents_path,omitempty" env:"PANEHOST_RECENTS_PATH"`
	ClearRecentsOnClear bool   `yaml:"clear_recents_on_clear" env:"PANEHOST_CLEAR_RECENTS_ON_CLEAR"`

	LogLevel string `yaml:"log_level" env:"PANEHOST_LOG_LEVEL"`
}

// ValidationError points at the offending YAML path, and at the file
// location when the value came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HostWidth:           1920,
		HostHeight:          1080,
		CascadeStep:         30,
		CascadeAnchorX:      50,
		CascadeAnchorY:      50,
		DefaultWidth:        registry.DefaultWidth,
		DefaultHeight:       registry.DefaultHeight,
		MinWidth:            resize.MinWidth,
		MinHeight:           resize.MinHeight,
		VisibleMargin:       100,
		HeaderHeight:        40,
		LivenessIntervalMS:  100,
		ZIndexThreshold:     registry.DefaultZIndexThreshold,
		RecentsLimit:        recents.DefaultLimit,
		RecentsBackend:      recents.BackendJSON,
		ClearRecentsOnClear: false,
		LogLevel:            "info",
	}
}

// Validate checks every field and returns the first problem found.
func (c *Config) Validate() error {
	positive := []struct {
		path  string
		value int
	}{
		{"host_width", c.HostWidth},
		{"host_height", c.HostHeight},
		{"cascade_step", c.CascadeStep},
		{"default_width", c.DefaultWidth},
		{"default_height", c.DefaultHeight},
		{"min_width", c.MinWidth},
		{"min_height", c.MinHeight},
		{"visible_margin", c.VisibleMargin},
		{"header_height", c.HeaderHeight},
		{"liveness_interval_ms", c.LivenessIntervalMS},
		{"z_index_threshold", c.ZIndexThreshold},
		{"recents_limit", c.RecentsLimit},
	}
	for _, f := range positive {
		if f.value <= 0 {
			return &ValidationError{Path: f.path, Err: fmt.Errorf("must be greater than 0, got %d", f.value)}
		}
	}
	if c.TileGap < 0 {
		return &ValidationError{Path: "tile_gap", Err: fmt.Errorf("must be >= 0, got %d", c.TileGap)}
	}
	if c.CascadeAnchorX < 0 || c.CascadeAnchorY < 0 {
		path := "cascade_anchor_x"
		if c.CascadeAnchorX >= 0 {
			path = "cascade_anchor_y"
		}
		return &ValidationError{Path: path, Err: fmt.Errorf("must be >= 0")}
	}
	if c.DefaultWidth < c.MinWidth {
		return &ValidationError{Path: "default_width", Err: fmt.Errorf("must be >= min_width (%d)", c.MinWidth)}
	}
	if c.DefaultHeight < c.MinHeight {
		return &ValidationError{Path: "default_height", Err: fmt.Errorf("must be >= min_height (%d)", c.MinHeight)}
	}
	if c.HeaderHeight >= c.MinHeight {
		return &ValidationError{Path: "header_height", Err: fmt.Errorf("must be smaller than min_height (%d)", c.MinHeight)}
	}
	switch strings.ToLower(c.RecentsBackend) {
	case recents.BackendJSON, recents.BackendSQLite, recents.BackendMemory:
	default:
		return &ValidationError{Path: "recents_backend", Err: fmt.Errorf("recents_backend must be one of: json, sqlite, memory")}
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	return nil
}

// ParseLogLevel maps a log_level value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
}

// HostBounds is the virtual host rectangle.
func (c *Config) HostBounds() geometry.Rect {
	return geometry.Rect{Width: c.HostWidth, Height: c.HostHeight}
}

// RegistryOptions translates the config into registry options.
func (c *Config) RegistryOptions() registry.Options {
	anchor := geometry.Point{X: c.CascadeAnchorX, Y: c.CascadeAnchorY}
	return registry.Options{
		CascadeStep:         c.CascadeStep,
		CascadeAnchor:       &anchor,
		TileGap:             c.TileGap,
		DefaultSize:         geometry.Size{Width: c.DefaultWidth, Height: c.DefaultHeight},
		ZIndexThreshold:     c.ZIndexThreshold,
		RecentsLimit:        c.RecentsLimit,
		ClearRecentsOnClear: c.ClearRecentsOnClear,
		HeaderHeight:        c.HeaderHeight,
		VisibleMargin:       c.VisibleMargin,
		ResizeLimits:        resize.Limits{MinWidth: c.MinWidth, MinHeight: c.MinHeight},
		LivenessInterval:    time.Duration(c.LivenessIntervalMS) * time.Millisecond,
	}
}

// OpenRecents opens the configured recents store.
func (c *Config) OpenRecents() (recents.Store, error) {
	return recents.Open(c.RecentsBackend, c.RecentsPath)
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates and writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
