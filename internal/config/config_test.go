package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	opts := cfg.RegistryOptions()
	if opts.CascadeStep != 30 || opts.CascadeAnchor.X != 50 || opts.ZIndexThreshold != 99999 {
		t.Fatalf("unexpected registry options %+v", opts)
	}
	if opts.LivenessInterval != 100*time.Millisecond {
		t.Fatalf("unexpected liveness interval %v", opts.LivenessInterval)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.File != "" || res.Config.HostWidth != 1920 {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.RecentsBackend != "json" {
		t.Fatalf("expected json backend, got %q", res.Config.RecentsBackend)
	}
}

func TestLoadFromPath_FileValues(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"host_width: 1280",
		"recents_backend: sqlite",
		"clear_recents_on_clear: true",
		"tile_gap: 8",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.HostWidth != 1280 || res.Config.RecentsBackend != "sqlite" || !res.Config.ClearRecentsOnClear {
		t.Fatalf("file values not applied: %+v", res.Config)
	}
	if res.Config.RegistryOptions().TileGap != 8 {
		t.Fatalf("tile_gap not passed to registry options: %d", res.Config.RegistryOptions().TileGap)
	}

	val, src, err := Explain(res, "host_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val.(int) != 1280 || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("unexpected explain result %v %+v", val, src)
	}
	_, src, _ = Explain(res, "cascade_step")
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %+v", src)
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "host_width: 1280\n")
	t.Setenv("PANEHOST_HOST_WIDTH", "640")
	t.Setenv("PANEHOST_LOG_LEVEL", "debug")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.HostWidth != 640 || res.Config.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", res.Config)
	}
	_, src, _ := Explain(res, "host_width")
	if src.Kind != SourceEnv || src.Name != "PANEHOST_HOST_WIDTH" {
		t.Fatalf("expected env source, got %+v", src)
	}
}

func TestLoadFromPath_BadEnv(t *testing.T) {
	t.Setenv("PANEHOST_HOST_WIDTH", "wide")
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "none.yaml"))
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoadFromPath_UnknownKeyRejected(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "hotkey: super-g\n")); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoadFromPath_ValidationErrorHasLocation(t *testing.T) {
	path := writeConfig(t, "host_width: 800\nrecents_backend: redis\n")
	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "recents_backend" || verr.Source.Line != 2 {
		t.Fatalf("unexpected error location %+v", verr)
	}
	if !strings.Contains(err.Error(), path+":2:") {
		t.Fatalf("expected file:line prefix, got %q", err.Error())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"zero host", func(c *Config) { c.HostHeight = 0 }, "host_height"},
		{"negative anchor", func(c *Config) { c.CascadeAnchorY = -1 }, "cascade_anchor_y"},
		{"negative tile gap", func(c *Config) { c.TileGap = -4 }, "tile_gap"},
		{"default below min", func(c *Config) { c.DefaultWidth = 100 }, "default_width"},
		{"header too tall", func(c *Config) { c.HeaderHeight = 500 }, "header_height"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("Validate() = %v, want error at %s", err, tt.path)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.CascadeStep = 45
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.CascadeStep != 45 {
		t.Fatalf("expected cascade_step 45, got %d", res.Config.CascadeStep)
	}
}

func TestExplainUnknownPath(t *testing.T) {
	res := &LoadResult{Config: DefaultConfig()}
	if _, _, err := Explain(res, "layouts.grid"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	if len(Paths()) != 18 {
		t.Fatalf("expected 18 config paths, got %d", len(Paths()))
	}
}
