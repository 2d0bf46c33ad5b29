package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/panehost/internal/geometry"
	"github.com/1broseidon/panehost/internal/window"
)

// controlGlyphs mark the minimize, maximize and close thirds of the
// controls region.
var controlGlyphs = [3]rune{'_', '□', '×'}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	activeFrame  = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

// canvas is a grid of styled runes. Drawing is clipped to the grid.
type canvas struct {
	cols, rows int
	cells      [][]cell
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.cells = make([][]cell, c.rows)
	for y := range c.cells {
		c.cells[y] = make([]cell, c.cols)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *canvas) text(x, y, width int, s string, style *lipgloss.Style) {
	i := 0
	for _, r := range s {
		if i >= width {
			return
		}
		c.set(x+i, y, r, style)
		i++
	}
}

// String renders the grid, merging runs of equally styled cells.
func (c *canvas) String() string {
	var sb strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle *lipgloss.Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyle != nil {
				sb.WriteString(runStyle.Render(run.String()))
			} else {
				sb.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.style != runStyle {
				flush()
				runStyle = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return sb.String()
}

// drawWindow paints one window frame. A minimized window collapses to its
// header rows.
func (c *canvas) drawWindow(v window.View, active bool) {
	r := v.VisibleRect()
	x0, y0, x1, y1 := CellRect(r)
	if x1 <= x0 || y1 < y0 {
		return
	}

	var frame *lipgloss.Style
	if active {
		frame = &activeFrame
	}

	// Clear the interior so lower windows don't show through.
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y, ' ', nil)
		}
	}

	headerRows := max(v.HeaderHeight/CellHeight, 1)
	sep := y0 + headerRows - 1

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', frame)
		c.set(x, y1, '─', frame)
		if sep > y0 && sep < y1 {
			c.set(x, sep, '─', frame)
		}
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', frame)
		c.set(x1, y, '│', frame)
	}
	c.set(x0, y0, '┌', frame)
	c.set(x1, y0, '┐', frame)
	c.set(x0, y1, '└', frame)
	c.set(x1, y1, '┘', frame)
	if sep > y0 && sep < y1 {
		c.set(x0, sep, '├', frame)
		c.set(x1, sep, '┤', frame)
	}

	inner := x1 - x0 - 1
	controlsStart := floorDiv(r.Right()-window.DefaultControlsWidth, CellWidth)
	title := v.Title
	if title == "" {
		title = v.ID
	}
	if titleWidth := controlsStart - x0 - 2; titleWidth > 0 {
		c.text(x0+2, y0, titleWidth, title, &titleStyle)
	}
	if controlsStart > x0 {
		third := window.DefaultControlsWidth / 3
		for i, g := range controlGlyphs {
			centre := r.Right() - window.DefaultControlsWidth + third*i + third/2
			c.set(floorDiv(centre, CellWidth), y0, g, frame)
		}
	}

	if v.Lifecycle != window.Minimized && sep+1 < y1 {
		c.text(x0+2, sep+1, inner-2, v.ContentURL, nil)
	}
}

// drawPreview outlines where a dragged window would land.
func (c *canvas) drawPreview(r geometry.Rect) {
	x0, y0, x1, y1 := CellRect(r)
	for x := x0; x <= x1; x++ {
		c.set(x, y0, '┄', &previewStyle)
		c.set(x, y1, '┄', &previewStyle)
	}
	for y := y0; y <= y1; y++ {
		c.set(x0, y, '┆', &previewStyle)
		c.set(x1, y, '┆', &previewStyle)
	}
}

// controlAt maps a press inside the controls region to minimize, maximize
// or close by which third of the region it hit.
func controlAt(v window.View, p geometry.Point, controlsWidth int) string {
	right := v.Position.X + v.Size.Width
	offset := p.X - (right - controlsWidth)
	if offset < 0 || controlsWidth <= 0 {
		return ""
	}
	switch third := offset * 3 / controlsWidth; third {
	case 0:
		return "minimize"
	case 1:
		return "maximize"
	default:
		return "close"
	}
}
