package gesture

import (
	"github.com/1broseidon/panehost/internal/geometry"
)

// Phase represents the current phase of the mover
type Phase int

const (
	// PhaseIdle means no window is being moved
	PhaseIdle Phase = iota
	// PhaseDragging means a window is grabbed and follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// EndReason records why a session finished.
type EndReason int

const (
	EndPointerUp EndReason = iota
	EndFocusLost
	EndCancelled
)

func (r EndReason) String() string {
	switch r {
	case EndPointerUp:
		return "pointer-up"
	case EndFocusLost:
		return "focus-lost"
	case EndCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Session holds the state of one drag, from move-start to commit.
type Session struct {
	TargetID      string
	Mask          geometry.Rect
	PointerOrigin geometry.Point
	TargetOrigin  geometry.Point
	TargetSize    geometry.Size
	LastPointer   geometry.Point
	Preview       geometry.Rect
}

func (s *Session) candidate(p geometry.Point) geometry.Point {
	return s.TargetOrigin.Add(p.Sub(s.PointerOrigin))
}

// Preview describes the non-committing outline a host draws while dragging.
type Preview struct {
	TargetID string
	Rect     geometry.Rect
}

// Result is the outcome of a finished session.
type Result struct {
	TargetID  string
	Position  geometry.Point
	Committed bool
	Reason    EndReason
}
