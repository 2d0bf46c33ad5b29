// Package arrange holds the stateless layout algorithms used to arrange all
// open windows at once.
package arrange

import (
	"fmt"
	"math"

	"github.com/1broseidon/panehost/internal/geometry"
)

const (
	// DefaultStep is the diagonal offset between cascaded windows.
	DefaultStep = 30
	// DefaultWrap is how many staggered slots new windows cycle through.
	DefaultWrap = 10
)

// DefaultAnchor is where the first cascaded window lands.
var DefaultAnchor = geometry.Point{X: 50, Y: 50}

// Mode names an arrangement.
type Mode string

const (
	ModeNone    Mode = ""
	ModeCascade Mode = "cascade"
	ModeTile    Mode = "tile"
)

// ParseMode parses an arrangement name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCascade, ModeTile:
		return Mode(s), nil
	default:
		return ModeNone, fmt.Errorf("unknown arrangement %q (want cascade or tile)", s)
	}
}

// CalculateGrid determines the grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Cascade returns the top-left corner of each of n windows, stepping
// diagonally from anchor.
func Cascade(n int, anchor geometry.Point, step int) []geometry.Point {
	if n <= 0 {
		return nil
	}
	positions := make([]geometry.Point, n)
	for i := range positions {
		positions[i] = geometry.Point{X: anchor.X + i*step, Y: anchor.Y + i*step}
	}
	return positions
}

// Stagger returns the default position of the index-th new window: a
// diagonal offset that wraps after wrap slots.
func Stagger(index int, origin geometry.Point, step, wrap int) geometry.Point {
	if wrap <= 0 {
		wrap = DefaultWrap
	}
	if index < 0 {
		index = 0
	}
	k := index % wrap
	return geometry.Point{X: origin.X + step*k, Y: origin.Y + step*k}
}

// Tile divides container into a cols × rows grid and returns one cell per
// window in row-major order. Cell sizes use floor division, so the cells
// never exceed the container.
func Tile(n int, container geometry.Rect) []geometry.Rect {
	return TileWithGap(n, container, 0)
}

// TileWithGap is Tile with gapSize units between cells and around the edge.
func TileWithGap(n int, container geometry.Rect, gapSize int) []geometry.Rect {
	if n <= 0 {
		return nil
	}
	if gapSize < 0 {
		gapSize = 0
	}

	rows, cols := CalculateGrid(n)

	// Available space per axis is the container minus (cells + 1) gaps.
	cellWidth := (container.Width - (cols+1)*gapSize) / cols
	cellHeight := (container.Height - (rows+1)*gapSize) / rows
	if cellWidth < 1 {
		cellWidth = 1
	}
	if cellHeight < 1 {
		cellHeight = 1
	}

	cells := make([]geometry.Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		cells[i] = geometry.Rect{
			X:      container.X + gapSize + col*(cellWidth+gapSize),
			Y:      container.Y + gapSize + row*(cellHeight+gapSize),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return cells
}
