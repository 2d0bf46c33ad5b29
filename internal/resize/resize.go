package resize

import (
	"fmt"

	"github.com/1broseidon/panehost/internal/geometry"
)

// Minimum window dimensions enforced by every handle.
const (
	MinWidth  = 200
	MinHeight = 150
)

// Handle identifies which edge or corner of a window is being dragged.
type Handle int

const (
	HandleNone Handle = iota
	HandleN
	HandleS
	HandleE
	HandleW
	HandleNE
	HandleNW
	HandleSE
	HandleSW
)

// String returns the string representation of the handle
func (h Handle) String() string {
	switch h {
	case HandleN:
		return "n"
	case HandleS:
		return "s"
	case HandleE:
		return "e"
	case HandleW:
		return "w"
	case HandleNE:
		return "ne"
	case HandleNW:
		return "nw"
	case HandleSE:
		return "se"
	case HandleSW:
		return "sw"
	default:
		return "none"
	}
}

// ParseHandle maps a handle name (as produced by String) back to a Handle.
func ParseHandle(s string) (Handle, error) {
	for h := HandleN; h <= HandleSW; h++ {
		if h.String() == s {
			return h, nil
		}
	}
	return HandleNone, fmt.Errorf("unknown resize handle %q", s)
}

// Handles lists all eight handles in a stable order.
func Handles() []Handle {
	return []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}
}

func (h Handle) movesNorth() bool { return h == HandleN || h == HandleNE || h == HandleNW }
func (h Handle) movesSouth() bool { return h == HandleS || h == HandleSE || h == HandleSW }
func (h Handle) movesEast() bool  { return h == HandleE || h == HandleNE || h == HandleSE }
func (h Handle) movesWest() bool  { return h == HandleW || h == HandleNW || h == HandleSW }

// Limits bounds the dimensions a resize can produce.
type Limits struct {
	MinWidth  int
	MinHeight int
}

// DefaultLimits returns the 200x150 floor.
func DefaultLimits() Limits {
	return Limits{MinWidth: MinWidth, MinHeight: MinHeight}
}

// Session is one pointer-down-to-pointer-up resize interaction.
type Session struct {
	Handle  Handle
	Pointer geometry.Point
	Start   geometry.Rect
	limits  Limits
}

// Begin captures the starting pointer and rect for a resize gesture.
func Begin(h Handle, pointer geometry.Point, start geometry.Rect, limits Limits) (*Session, error) {
	if h == HandleNone {
		return nil, fmt.Errorf("resize handle is required")
	}
	if limits.MinWidth <= 0 || limits.MinHeight <= 0 {
		limits = DefaultLimits()
	}
	return &Session{Handle: h, Pointer: pointer, Start: start, limits: limits}, nil
}

// Apply computes the rect for the current pointer sample.
//
// Far edges (E, S) grow by +delta. Near edges (W, N) grow by -delta and the
// origin follows so the opposite edge stays put, also once the minimum size
// kicks in.
func (s *Session) Apply(pointer geometry.Point) geometry.Rect {
	d := pointer.Sub(s.Pointer)
	out := s.Start

	if s.Handle.movesEast() {
		out.Width = max(s.Start.Width+d.X, s.limits.MinWidth)
	}
	if s.Handle.movesWest() {
		out.Width = max(s.Start.Width-d.X, s.limits.MinWidth)
		out.X = s.Start.Right() - out.Width
	}
	if s.Handle.movesSouth() {
		out.Height = max(s.Start.Height+d.Y, s.limits.MinHeight)
	}
	if s.Handle.movesNorth() {
		out.Height = max(s.Start.Height-d.Y, s.limits.MinHeight)
		out.Y = s.Start.Bottom() - out.Height
	}
	return out
}

// HandleAt reports which handle, if any, sits under p for a window occupying
// r. Corners win over edges. grip is the thickness of the handle band.
func HandleAt(r geometry.Rect, p geometry.Point, grip int) Handle {
	if !r.Contains(p) || grip <= 0 {
		return HandleNone
	}
	north := p.Y < r.Y+grip
	south := p.Y >= r.Bottom()-grip
	west := p.X < r.X+grip
	east := p.X >= r.Right()-grip

	switch {
	case north && west:
		return HandleNW
	case north && east:
		return HandleNE
	case south && west:
		return HandleSW
	case south && east:
		return HandleSE
	case north:
		return HandleN
	case south:
		return HandleS
	case west:
		return HandleW
	case east:
		return HandleE
	}
	return HandleNone
}
