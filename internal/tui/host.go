package tui

import (
	"fmt"
	"sync"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/window"
)

// One terminal cell covers CellWidth x CellHeight window units, so a default
// 800x600 window is 80x30 cells and the 40-unit header is two rows.
const (
	CellWidth  = 10
	CellHeight = 20
)

// Host is the terminal-backed host surface. The area above the status and
// help bars is the surface; everything is in window units.
type Host struct {
	mu         sync.Mutex
	cols, rows int
	entities   map[string]*window.Entity
	boundaries map[string]*boundary
}

// NewHost creates a host covering cols x rows cells.
func NewHost(cols, rows int) *Host {
	return &Host{
		cols:       cols,
		rows:       rows,
		entities:   make(map[string]*window.Entity),
		boundaries: make(map[string]*boundary),
	}
}

func (h *Host) Bounds() (geometry.Rect, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cols <= 0 || h.rows <= 0 {
		return geometry.Rect{}, fmt.Errorf("terminal is too small")
	}
	return geometry.Rect{Width: h.cols * CellWidth, Height: h.rows * CellHeight}, nil
}

func (h *Host) Attach(e *window.Entity) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entities[e.ID()] = e
}

func (h *Host) Detach(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.entities, id)
	delete(h.boundaries, id)
}

// Resize sets the surface size in cells.
func (h *Host) Resize(cols, rows int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cols = max(cols, 0)
	h.rows = max(rows, 0)
}

// Cells returns the surface size in cells.
func (h *Host) Cells() (cols, rows int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cols, h.rows
}

// Entity returns the attached entity for id.
func (h *Host) Entity(id string) (*window.Entity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entities[id]
	return e, ok
}

// Boundary returns the content boundary for a new window. Content drawn by
// the terminal is always observable.
func (h *Host) Boundary(cfg window.Config) window.ContentBoundary {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := &boundary{}
	h.boundaries[cfg.ID] = b
	return b
}

// PressContent delivers a press inside id's content. It reports false when
// the content isn't observed, in which case the caller falls back to the
// window frame.
func (h *Host) PressContent(id string, p geometry.Point) bool {
	h.mu.Lock()
	b, ok := h.boundaries[id]
	h.mu.Unlock()
	if !ok {
		return false
	}
	return b.fire(p)
}

// PointAt converts a cell to the window-unit point at its centre.
func PointAt(col, row int) geometry.Point {
	return geometry.Point{X: col*CellWidth + CellWidth/2, Y: row*CellHeight + CellHeight/2}
}

// CellRect converts a window-unit rect to the cells it covers.
func CellRect(r geometry.Rect) (col0, row0, col1, row1 int) {
	col0 = floorDiv(r.X, CellWidth)
	row0 = floorDiv(r.Y, CellHeight)
	col1 = floorDiv(r.Right()-1, CellWidth)
	row1 = floorDiv(r.Bottom()-1, CellHeight)
	return col0, row0, col1, row1
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

type boundary struct {
	mu sync.Mutex
	fn func(geometry.Point)
}

func (b *boundary) ObservePointerDown(fn func(geometry.Point)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fn = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.fn = nil
	}, nil
}

func (b *boundary) fire(p geometry.Point) bool {
	b.mu.Lock()
	fn := b.fn
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(p)
	return true
}
