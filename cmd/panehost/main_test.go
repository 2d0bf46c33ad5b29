package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/panehost/internal/config"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/ipc"
	"github.com/1broseidon/panehost/internal/window"
)

type fakeWindowClient struct {
	added   []window.Config
	closed  []string
	moved   []string
	resized []string
	err     error
}

func (f *fakeWindowClient) AddWindow(cfg window.Config) (*ipc.AddWindowData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.added = append(f.added, cfg)
	return &ipc.AddWindowData{ID: cfg.ID}, nil
}

func (f *fakeWindowClient) ActivateWindow(string) error { return f.err }

func (f *fakeWindowClient) CloseWindow(id string) error {
	f.closed = append(f.closed, id)
	return f.err
}

func (f *fakeWindowClient) MinimizeWindow(string) error { return f.err }
func (f *fakeWindowClient) MaximizeWindow(string) error { return f.err }
func (f *fakeWindowClient) ClearWindows() error         { return f.err }

func (f *fakeWindowClient) ListWindows() ([]ipc.WindowInfo, error) {
	return nil, f.err
}

func (f *fakeWindowClient) MoveWindow(id string, x, y int) (*ipc.MoveResultData, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.moved = append(f.moved, id)
	return &ipc.MoveResultData{ID: id, X: x, Y: y, Committed: true}, nil
}

func (f *fakeWindowClient) ResizeWindow(id, handle string, dx, dy int) (*ipc.WindowInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.resized = append(f.resized, id+":"+handle)
	return &ipc.WindowInfo{ID: id}, nil
}

func useFakeClient(t *testing.T, f *fakeWindowClient) {
	t.Helper()
	prev := newWindowClient
	newWindowClient = func() windowClient { return f }
	t.Cleanup(func() { newWindowClient = prev })
}

func TestWindowIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/docs/intro", "example-com-intro"},
		{"https://example.com/", "example-com"},
		{"file:///tmp/notes.md", "notes-md"},
		{"Scratch Pad", "scratchpad"},
		{"///", "window"},
	}
	for _, tt := range tests {
		if got := windowIDFromURL(tt.in); got != tt.want {
			t.Errorf("windowIDFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildWindowConfig(t *testing.T) {
	cfg, err := buildWindowConfig("", "Docs", "https://docs.dev/a", map[string]bool{"x": true, "y": true}, 10, 20, 0, 0)
	if err != nil {
		t.Fatalf("buildWindowConfig: %v", err)
	}
	if cfg.ID != "docs-dev-a" {
		t.Fatalf("ID = %q", cfg.ID)
	}
	if cfg.Position == nil || *cfg.Position != (geometry.Point{X: 10, Y: 20}) {
		t.Fatalf("Position = %v", cfg.Position)
	}
	if cfg.Size != nil {
		t.Fatalf("Size = %v, want nil", cfg.Size)
	}

	if _, err := buildWindowConfig("a", "", "", nil, 0, 0, 0, 0); err == nil {
		t.Fatal("expected error for a missing url")
	}
	if _, err := buildWindowConfig("a", "", "u", map[string]bool{"x": true}, 0, 0, 0, 0); err == nil {
		t.Fatal("expected error for x without y")
	}
	if _, err := buildWindowConfig("a", "", "u", map[string]bool{"width": true, "height": true}, 0, 0, -1, 10); err == nil {
		t.Fatal("expected error for a negative width")
	}
}

func TestRunWindowCommands(t *testing.T) {
	f := &fakeWindowClient{}
	useFakeClient(t, f)

	if rc := runWindow([]string{"add", "--url", "https://a.dev", "--width", "400", "--height", "300"}); rc != 0 {
		t.Fatalf("add rc=%d", rc)
	}
	if len(f.added) != 1 || f.added[0].Size == nil || f.added[0].Size.Width != 400 {
		t.Fatalf("added = %+v", f.added)
	}

	if rc := runWindow([]string{"close", "a-dev"}); rc != 0 {
		t.Fatalf("close rc=%d", rc)
	}
	if len(f.closed) != 1 || f.closed[0] != "a-dev" {
		t.Fatalf("closed = %v", f.closed)
	}

	if rc := runWindow([]string{"move", "--x", "5", "--y", "6", "a-dev"}); rc != 0 {
		t.Fatalf("move rc=%d", rc)
	}
	if rc := runWindow([]string{"resize", "--handle", "sw", "--dx", "10", "a-dev"}); rc != 0 {
		t.Fatalf("resize rc=%d", rc)
	}
	if len(f.resized) != 1 || f.resized[0] != "a-dev:sw" {
		t.Fatalf("resized = %v", f.resized)
	}
}

func TestRunWindowUsageErrors(t *testing.T) {
	f := &fakeWindowClient{}
	useFakeClient(t, f)

	cases := [][]string{
		{},
		{"bogus"},
		{"close"},
		{"close", "a", "b"},
		{"move", "--x", "1"},
		{"resize", "--handle", "middle", "a"},
		{"add"},
	}
	for _, args := range cases {
		if rc := runWindow(args); rc != 2 {
			t.Errorf("runWindow(%v) rc=%d, want 2", args, rc)
		}
	}
}

func TestRunWindowDaemonError(t *testing.T) {
	useFakeClient(t, &fakeWindowClient{err: errors.New("daemon not running")})
	if rc := runWindow([]string{"activate", "a"}); rc != 1 {
		t.Fatalf("rc=%d, want 1", rc)
	}
	if rc := runWindow([]string{"list"}); rc != 1 {
		t.Fatalf("list rc=%d, want 1", rc)
	}
}

func TestRunArrangeRejectsUnknownMode(t *testing.T) {
	if rc := runArrange([]string{"spiral"}); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
	if rc := runArrange(nil); rc != 2 {
		t.Fatalf("rc=%d, want 2", rc)
	}
}

func TestRunConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("host_width: 1280\nhost_height: 720\n"), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("host_width: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if rc := runConfig([]string{"validate", "--path", good}); rc != 0 {
		t.Fatalf("validate good rc=%d", rc)
	}
	if rc := runConfig([]string{"validate", "--path", bad}); rc != 1 {
		t.Fatalf("validate bad rc=%d, want 1", rc)
	}
	if rc := runConfig([]string{"explain", "--path", good, "host_width"}); rc != 0 {
		t.Fatalf("explain rc=%d", rc)
	}
	if rc := runConfig([]string{"explain", "--path", good, "nope"}); rc != 1 {
		t.Fatalf("explain unknown rc=%d, want 1", rc)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 1}, "file:/c.yaml:3:1"},
		{config.Source{Kind: config.SourceEnv, Name: "PANEHOST_HOST_WIDTH"}, "env:PANEHOST_HOST_WIDTH"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
