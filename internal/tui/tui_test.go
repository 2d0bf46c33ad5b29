package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/panehost/internal/config"
	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/recents"
	"github.com/1broseidon/panehost/internal/registry"
	"github.com/1broseidon/panehost/internal/window"
)

func TestPointAtAndCellRect(t *testing.T) {
	if got := PointAt(3, 2); got != (geometry.Point{X: 35, Y: 50}) {
		t.Fatalf("PointAt(3, 2) = %+v", got)
	}

	c0, r0, c1, r1 := CellRect(geometry.Rect{X: 100, Y: 100, Width: 400, Height: 300})
	if c0 != 10 || r0 != 5 || c1 != 49 || r1 != 19 {
		t.Fatalf("CellRect = %d,%d %d,%d", c0, r0, c1, r1)
	}

	// Windows dragged partly off the left edge land on negative cells.
	c0, _, _, _ = CellRect(geometry.Rect{X: -15, Y: 0, Width: 100, Height: 100})
	if c0 != -2 {
		t.Fatalf("CellRect negative col = %d, want -2", c0)
	}
}

func TestHostBounds(t *testing.T) {
	h := NewHost(0, 10)
	if _, err := h.Bounds(); err == nil {
		t.Fatal("expected error for an empty host")
	}

	h.Resize(120, 40)
	b, err := h.Bounds()
	if err != nil {
		t.Fatalf("Bounds: %v", err)
	}
	if b.Width != 1200 || b.Height != 800 {
		t.Fatalf("Bounds = %+v, want 1200x800", b)
	}
}

func TestHostPressContent(t *testing.T) {
	h := NewHost(80, 24)
	if h.PressContent("a", geometry.Point{}) {
		t.Fatal("press without a boundary should not be delivered")
	}

	b := h.Boundary(window.Config{ID: "a", ContentURL: "https://a"})
	var got geometry.Point
	stop, err := b.ObservePointerDown(func(p geometry.Point) { got = p })
	if err != nil {
		t.Fatalf("ObservePointerDown: %v", err)
	}
	if !h.PressContent("a", geometry.Point{X: 7, Y: 9}) {
		t.Fatal("press should be delivered")
	}
	if got != (geometry.Point{X: 7, Y: 9}) {
		t.Fatalf("observer got %+v", got)
	}

	stop()
	if h.PressContent("a", geometry.Point{}) {
		t.Fatal("press after stop should not be delivered")
	}

	h.Detach("a")
	if h.PressContent("a", geometry.Point{}) {
		t.Fatal("press after detach should not be delivered")
	}
}

func TestControlAt(t *testing.T) {
	v := window.View{Position: geometry.Point{X: 100, Y: 100}, Size: geometry.Size{Width: 400, Height: 300}}
	tests := []struct {
		x    int
		want string
	}{
		{x: 403, want: ""},
		{x: 404, want: "minimize"},
		{x: 435, want: "minimize"},
		{x: 436, want: "maximize"},
		{x: 468, want: "close"},
		{x: 499, want: "close"},
	}
	for _, tt := range tests {
		if got := controlAt(v, geometry.Point{X: tt.x, Y: 110}, window.DefaultControlsWidth); got != tt.want {
			t.Errorf("controlAt(x=%d) = %q, want %q", tt.x, got, tt.want)
		}
	}
}

func TestCanvasDrawWindow(t *testing.T) {
	c := newCanvas(60, 20)
	c.drawWindow(window.View{
		ID:           "a",
		Title:        "Docs",
		ContentURL:   "https://docs",
		Position:     geometry.Point{X: 0, Y: 0},
		Size:         geometry.Size{Width: 400, Height: 200},
		HeaderHeight: 40,
	}, false)

	lines := strings.Split(c.String(), "\n")
	if len(lines) != 20 {
		t.Fatalf("rows = %d, want 20", len(lines))
	}
	if !strings.HasPrefix(lines[0], "┌") || !strings.Contains(lines[0], "Docs") {
		t.Fatalf("header row = %q", lines[0])
	}
	for _, g := range []string{"_", "□", "×"} {
		if !strings.Contains(lines[0], g) {
			t.Errorf("header row %q missing control %q", lines[0], g)
		}
	}
	if !strings.HasPrefix(lines[1], "├") {
		t.Fatalf("separator row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "https://docs") {
		t.Fatalf("content row = %q", lines[2])
	}
	if !strings.HasPrefix(lines[9], "└") {
		t.Fatalf("bottom row = %q", lines[9])
	}
}

func TestCanvasDrawMinimizedWindow(t *testing.T) {
	c := newCanvas(60, 20)
	c.drawWindow(window.View{
		ID:           "a",
		ContentURL:   "https://docs",
		Size:         geometry.Size{Width: 400, Height: 200},
		Lifecycle:    window.Minimized,
		HeaderHeight: 40,
	}, true)

	lines := strings.Split(c.String(), "\n")
	if !strings.HasPrefix(lines[1], "└") {
		t.Fatalf("minimized window should close after the header, row 1 = %q", lines[1])
	}
	if strings.Contains(c.String(), "https://docs") {
		t.Fatal("minimized window should not draw content")
	}
}

// newTestModel builds a model on a 120x40 cell surface.
func newTestModel(t *testing.T) (model, *registry.Registry) {
	t.Helper()
	reg, host, focused, n, err := newSession(config.DefaultConfig(), recents.NewMemoryStore(), 120, 40)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(reg.Close)

	m := newModel(reg, host, focused, n)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40 + chromeRows})
	return m, reg
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func addAt(t *testing.T, reg *registry.Registry, id string, x, y, w, h int) {
	t.Helper()
	pos := geometry.Point{X: x, Y: y}
	size := geometry.Size{Width: w, Height: h}
	if _, err := reg.AddWindow(window.Config{ID: id, ContentURL: "https://" + id, Position: &pos, Size: &size}); err != nil {
		t.Fatalf("AddWindow(%s): %v", id, err)
	}
}

// mouse builds a mouse message for a surface cell; row 0 of the surface is
// terminal row 1.
func mouse(action tea.MouseAction, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row + 1, Action: action, Button: tea.MouseButtonLeft}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelDragHeaderMovesWindow(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 100, 100, 400, 300)

	m = update(t, m, mouse(tea.MouseActionPress, 15, 5))
	if id, ok := reg.Gesture().Target(); !ok || id != "a" {
		t.Fatalf("drag target = %q, %v", id, ok)
	}

	m = update(t, m, mouse(tea.MouseActionMotion, 25, 10))
	if preview, ok := reg.Gesture().Preview(); !ok || preview.Rect.Origin() != (geometry.Point{X: 200, Y: 200}) {
		t.Fatalf("preview = %+v, %v", preview, ok)
	}
	if !strings.Contains(m.View(), "moving a") {
		t.Fatal("status bar should show the drag")
	}

	update(t, m, mouse(tea.MouseActionRelease, 25, 10))
	v, _ := reg.Window("a")
	if v.Position != (geometry.Point{X: 200, Y: 200}) {
		t.Fatalf("position = %+v, want 200,200", v.Position)
	}
	if reg.Gesture().Active() {
		t.Fatal("gesture should be idle after release")
	}
}

func TestModelBlurEndsDrag(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 100, 100, 400, 300)

	m = update(t, m, mouse(tea.MouseActionPress, 15, 5))
	m = update(t, m, mouse(tea.MouseActionMotion, 25, 10))
	update(t, m, tea.BlurMsg{})

	if reg.Gesture().Active() {
		t.Fatal("blur should end the drag")
	}
	v, _ := reg.Window("a")
	if v.Position != (geometry.Point{X: 200, Y: 200}) {
		t.Fatalf("position = %+v, want the last preview 200,200", v.Position)
	}
}

func TestModelControls(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 100, 100, 400, 300)

	// Minimize third starts at x=404.
	m = update(t, m, mouse(tea.MouseActionPress, 41, 5))
	v, _ := reg.Window("a")
	if v.Lifecycle != window.Minimized {
		t.Fatalf("lifecycle = %v, want minimized", v.Lifecycle)
	}
	if reg.Gesture().Active() {
		t.Fatal("controls must not start a drag")
	}

	// Close third starts at x=468.
	update(t, m, mouse(tea.MouseActionPress, 48, 5))
	if _, ok := reg.Window("a"); ok {
		t.Fatal("close control should close the window")
	}
}

func TestModelResizeFromCorner(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 100, 100, 400, 300)

	m = update(t, m, mouse(tea.MouseActionPress, 49, 19))
	if id, ok := reg.Resizing(); !ok || id != "a" {
		t.Fatalf("resizing = %q, %v", id, ok)
	}
	m = update(t, m, mouse(tea.MouseActionMotion, 59, 24))
	update(t, m, mouse(tea.MouseActionRelease, 59, 24))

	v, _ := reg.Window("a")
	if v.Size != (geometry.Size{Width: 500, Height: 400}) {
		t.Fatalf("size = %+v, want 500x400", v.Size)
	}
	if v.Position != (geometry.Point{X: 100, Y: 100}) {
		t.Fatalf("position = %+v, want unchanged", v.Position)
	}
	if _, ok := reg.Resizing(); ok {
		t.Fatal("resize should end on release")
	}
}

func TestModelContentPressFocuses(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 0, 0, 400, 300)
	addAt(t, reg, "b", 600, 0, 400, 300)

	update(t, m, mouse(tea.MouseActionPress, 20, 10))

	stack := reg.Stack()
	if top := stack[len(stack)-1].ID; top != "a" {
		t.Fatalf("top = %q, want a", top)
	}
	if reg.Gesture().Active() {
		t.Fatal("content press must not start a drag")
	}
}

func TestModelKeys(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 0, 0, 400, 300)
	addAt(t, reg, "b", 600, 0, 400, 300)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	stack := reg.Stack()
	if top := stack[len(stack)-1].ID; top != "a" {
		t.Fatalf("tab should raise the bottom window, top = %q", top)
	}

	m = update(t, m, runeKey('m'))
	if v, _ := reg.Window("a"); v.Lifecycle != window.Maximized {
		t.Fatalf("lifecycle = %v, want maximized", v.Lifecycle)
	}

	m = update(t, m, runeKey('x'))
	if _, ok := reg.Window("a"); ok {
		t.Fatal("x should close the top window")
	}

	m = update(t, m, runeKey('t'))
	if reg.LastArrangement() != "tile" {
		t.Fatalf("last arrangement = %q, want tile", reg.LastArrangement())
	}
	if v, _ := reg.Window("b"); v.Size != (geometry.Size{Width: 1200, Height: 800}) {
		t.Fatalf("single tile = %+v, want the whole surface", v.Size)
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestModelRecentsReopen(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 0, 0, 400, 300)
	addAt(t, reg, "b", 600, 0, 400, 300)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if n := len(reg.Windows()); n != 0 {
		t.Fatalf("windows after clear = %d", n)
	}

	m = update(t, m, runeKey('r'))
	if !m.recents.Active() {
		t.Fatal("r should open the recents list")
	}
	if !strings.Contains(m.View(), "Recently opened") {
		t.Fatal("view should show the recents list")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.recents.Active() {
		t.Fatal("enter should close the recents list")
	}
	if _, ok := reg.Window("b"); !ok {
		t.Fatal("enter should reopen the newest recent")
	}
}

func TestModelHostResizeRetiles(t *testing.T) {
	m, reg := newTestModel(t)
	addAt(t, reg, "a", 0, 0, 400, 300)
	addAt(t, reg, "b", 600, 0, 400, 300)
	m = update(t, m, runeKey('t'))

	update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30 + chromeRows})

	v, _ := reg.Window("b")
	if v.Size != (geometry.Size{Width: 400, Height: 600}) {
		t.Fatalf("tile cell = %+v, want 400x600", v.Size)
	}
}

func TestModelViewEmptyBeforeSize(t *testing.T) {
	reg, host, focused, n, err := newSession(config.DefaultConfig(), recents.NewMemoryStore(), 0, 0)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer reg.Close()
	if got := newModel(reg, host, focused, n).View(); got != "" {
		t.Fatalf("View before size = %q", got)
	}
}
